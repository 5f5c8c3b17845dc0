/*
Package app assembles a ledger running the system, token and escrow
programs, initialized from a genesis file.
*/
package app
