/*
Package match defines incremental matchers and combinators.

A Matcher recognizes a fragment of a grammar starting at the cursor of a stream.Stream.
Match returns an Outcome of one of three kinds:

  - Matched: the matcher accepted some (possibly zero) runes and advanced the cursor past them.
    The outcome carries the value produced by the matcher; the value may be absent
    (e.g. for Optional that did not match or for Discard wrappers).
  - Failed: the input can never match. The outcome carries absolute offset and message,
    the cursor is left where the attempt started.
  - Indeterminate: buffered text is not enough to decide. The outcome carries a resume handle,
    the caller must append more text (or call AppendEnd) and call the handle's Match.
    Calling the original matcher instead starts a new attempt and is an error while
    the handle holds stream marks.

Grammar matchers returned by constructors are immutable and may be shared by any number of streams
and goroutines. Per-attempt state (active child index, values collected so far) lives only in resume handles.
A resume handle is a plain value; resuming it never changes the handle itself.

Once the stream end is signaled no matcher returns Indeterminate.

Constructors reject missing children and other invalid arguments with ErrInvalidArgument errors;
Must may be used for grammars declared as package variables.
*/
package match
