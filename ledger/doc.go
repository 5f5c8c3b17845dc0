/*
Package ledger implements the runtime that executes transactions against
account storage.

A transaction is a list of instructions, each naming a program and the
accounts it operates on, signed by every account flagged as a signer. The
runtime verifies the signatures, loads the accounts, dispatches every
instruction to its program and checks the result: read only accounts must not
change, the sum of balances must be preserved and only the owning program (or
a program it was registered to invoke) may modify data or debit an account.

All instructions of one transaction run inside a single cache wrap of the
store. Any failure discards the cache wrap, so a failed transaction leaves no
trace. Transactions are executed one at a time.
*/
package ledger
