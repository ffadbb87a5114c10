package webkit

/*
#cgo pkg-config: gtk+-3.0 webkit2gtk-4.0
#include <stdint.h>
#include <stdlib.h>
#include <gtk/gtk.h>
#include <webkit2/webkit2.h>
#ifdef GDK_WINDOWING_X11
#include <gdk/gdkx.h>
#endif

extern gboolean glacierDeleteEvent(uintptr_t handle);
extern void glacierDestroyed(uintptr_t handle);

static gboolean glacier_on_delete(GtkWidget* w, GdkEvent* ev, gpointer data) {
	(void)w; (void)ev;
	return glacierDeleteEvent((uintptr_t)data);
}

static void glacier_on_destroy(GtkWidget* w, gpointer data) {
	(void)w;
	glacierDestroyed((uintptr_t)data);
}

static GtkWidget* glacier_window_new(const char* title, int width, int height, gboolean resizable, uintptr_t handle) {
	GtkWidget* w = gtk_window_new(GTK_WINDOW_TOPLEVEL);
	gtk_window_set_title(GTK_WINDOW(w), title);
	gtk_window_set_default_size(GTK_WINDOW(w), width, height);
	gtk_window_set_resizable(GTK_WINDOW(w), resizable);
	g_signal_connect(w, "delete-event", G_CALLBACK(glacier_on_delete), (gpointer)handle);
	g_signal_connect(w, "destroy", G_CALLBACK(glacier_on_destroy), (gpointer)handle);
	return w;
}

// Realizes w and returns its X11 window id, or 0 when GDK is not on X11.
static unsigned long glacier_window_xid(GtkWidget* w) {
	gtk_widget_realize(w);
#ifdef GDK_WINDOWING_X11
	GdkWindow* gw = gtk_widget_get_window(w);
	if (gw != NULL && GDK_IS_X11_WINDOW(gw)) {
		return (unsigned long)gdk_x11_window_get_xid(gw);
	}
#endif
	return 0;
}

static void glacier_window_set_title(GtkWidget* w, const char* title) {
	gtk_window_set_title(GTK_WINDOW(w), title);
}

static void glacier_window_set_decorated(GtkWidget* w, gboolean decorated) {
	gtk_window_set_decorated(GTK_WINDOW(w), decorated);
}

static void glacier_window_move(GtkWidget* w, int x, int y) {
	gtk_window_move(GTK_WINDOW(w), x, y);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime/cgo"
	"unsafe"
)

var errGTKInit = errors.New("gtk initialization failed (no display?)")

func gtkInit() error {
	if C.gtk_init_check(nil, nil) == 0 {
		return errGTKInit
	}
	return nil
}

// gtkWindowNew creates a hidden toplevel GtkWindow whose signals report to
// the nativeWindow behind h.
func gtkWindowNew(title string, width, height int, resizable bool, h cgo.Handle) unsafe.Pointer {
	ctitle := C.CString(title)
	defer C.free(unsafe.Pointer(ctitle))
	return unsafe.Pointer(C.glacier_window_new(ctitle, C.int(width), C.int(height), cbool(resizable), C.uintptr_t(h)))
}

func widget(w unsafe.Pointer) *C.GtkWidget { return (*C.GtkWidget)(w) }

func gtkWindowXID(w unsafe.Pointer) uint32 {
	return uint32(C.glacier_window_xid(widget(w)))
}

func gtkWindowSetTitle(w unsafe.Pointer, title string) {
	ctitle := C.CString(title)
	defer C.free(unsafe.Pointer(ctitle))
	C.glacier_window_set_title(widget(w), ctitle)
}

func gtkWindowSetDecorated(w unsafe.Pointer, decorated bool) {
	C.glacier_window_set_decorated(widget(w), cbool(decorated))
}

func gtkWindowMove(w unsafe.Pointer, x, y int) {
	C.glacier_window_move(widget(w), C.int(x), C.int(y))
}

func gtkWidgetShow(w unsafe.Pointer)    { C.gtk_widget_show_all(widget(w)) }
func gtkWidgetHide(w unsafe.Pointer)    { C.gtk_widget_hide(widget(w)) }
func gtkWidgetDestroy(w unsafe.Pointer) { C.gtk_widget_destroy(widget(w)) }

func cbool(b bool) C.gboolean {
	if b {
		return 1
	}
	return 0
}

func engineVersion() (string, error) {
	return fmt.Sprintf("WebKitGTK %d.%d.%d",
		uint(C.webkit_get_major_version()),
		uint(C.webkit_get_minor_version()),
		uint(C.webkit_get_micro_version())), nil
}
