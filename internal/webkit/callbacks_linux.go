package webkit

/*
#include <stdint.h>
#include <glib.h>
*/
import "C"

import "runtime/cgo"

//export glacierDeleteEvent
func glacierDeleteEvent(handle C.uintptr_t) C.gboolean {
	nw, ok := cgo.Handle(handle).Value().(*nativeWindow)
	if !ok || !nw.requestClose() {
		// Let GTK destroy the window.
		return 0
	}
	return 1
}

//export glacierDestroyed
func glacierDestroyed(handle C.uintptr_t) {
	if nw, ok := cgo.Handle(handle).Value().(*nativeWindow); ok {
		nw.markDestroyed()
	}
}
