/*
Package token implements fungible token accounts and the custodian other
programs use to move them.

A token account is owned by this program and holds a balance of a single
mint. Its authority is the only identity allowed to move the balance, change
the authority or close the account. The authority is either a key that signed
the transaction or an address derived from the identity of a calling program,
in which case the caller proves the derivation instead of signing.
*/
package token
