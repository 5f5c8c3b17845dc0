/*
Package system implements the program owning every plain wallet.

It creates accounts, funding them from a payer and assigning them to the
program that will manage their data, and moves lamports between wallets.
Accounts that were never assigned are owned by this program, whose identity
is the zero address.
*/
package system
