// Package annotate records which source line every piece of generated code
// belongs to.
//
// A Writer tees everything the code generator emits into the real output and
// into a pending buffer. MarkPos closes the pending buffer into the shared
// Store under the position that was current before the call, so text written
// between marks A and B belongs to A:
//
//	w := annotate.NewWriter(out)
//	w.MarkPos(source.Pos{File: "m.pyx", Line: 2})
//	io.WriteString(w, "PyObject_Call(f, args, NULL);\n")
//	w.Flush()
//	lines := w.Store().Lines("m.pyx") // {2: "PyObject_Call(f, args, NULL);\n"}
//
// Forked writers (insertion points) share the Store but keep their own
// pending buffer. Nothing here is safe for concurrent use.
package annotate
