// Exercises of the format checker: valid sites stay quiet, mismatched sites
// are reported.
package a

import (
	"unsafe"

	postform "github.com/postform-dev/postform-go"
)

func valid(l *postform.Logger) {
	l.Debugf("no arguments at all")
	l.Debugf("escaped %% sign")
	l.Infof("x=%u", uint32(300))
	l.Infof("%d years", 28)
	l.Warningf("%s and %d", "text", int32(-1))
	l.Errorf("%x", uint64(0xA55A))
	l.Errorf("hh wants a byte: %hhu", byte(1))
	l.Errorf("h wants a short: %hd", int16(2))
	l.Errorf("%p", unsafe.Pointer(nil))
	l.Infof("%k", postform.InternUser("user string"))
}

func invalid(l *postform.Logger) {
	l.Debugf("%d", "oops")               // want `format string does not match arguments`
	l.Infof("%s", 123)                   // want `format string does not match arguments`
	l.Warningf("%u", int32(1))           // want `format string does not match arguments`
	l.Errorf("%hhu", uint32(1))          // want `format string does not match arguments`
	l.Errorf("too %d few")               // want `format string does not match arguments`
	l.Errorf("too many", 1)              // want `format string does not match arguments`
	l.Errorf("unknown specifier %a", 1)  // want `format string does not match arguments`
	l.Errorf("%p", "a string is not %p") // want `format string does not match arguments`
}

func unknowable(l *postform.Logger, format string, arg any) {
	// Non-constant formats and interface arguments defer to the runtime
	// check.
	l.Debugf(format, 1)
	l.Debugf("%d", arg)
}
