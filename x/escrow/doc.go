/*
Package escrow implements a token swap between two parties through a program
controlled deposit.

The initializer moves the tokens offered into a temporary deposit account and
calls InitEscrow, which records the terms of the trade in an escrow record
and hands control of the deposit to an authority derived from the record
address. Only this program can prove that derivation, so from this point no
key can move the deposit.

A taker completes the trade with Exchange: they pay the expected amount to
the initializer, receive the whole deposit, and the deposit and the record
are closed with their lamports returned to the initializer. Until then the
initializer may Cancel, which returns the deposit to them.

ResetTimeLock stores a new unlock time and timeout in the record. Whether
Cancel honours the unlock time is decided by the configured CancelPolicy.
*/
package escrow
