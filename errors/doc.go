/*
Package errors implements custom error interfaces for tlescrow.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Every program failure that a
client can act on is one of the root errors declared here, or one registered
by an extension with Register(code, description).

For reusing errors use Errxxx.New and Errxxx.Newf, or Wrap an existing error.
Code stands for the numeric error code returned to the client, which allows
to distinguish types of errors on the client side and act accordingly.

Stacktraces are recorded at the innermost Wrap. Once you have an error, you can
use `fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
