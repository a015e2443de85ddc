package lib

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// GoroutineID returns the id of the calling goroutine. The runtime never
// reuses these ids, which makes them suitable as a stable identity of the
// activity a process is bound to. The id is parsed out of the stack header,
// which has the form "goroutine 123 [running]:".
func GoroutineID() uint64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	header := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	id, err := strconv.ParseUint(header[:strings.IndexByte(header, ' ')], 10, 64)
	if err != nil {
		panic(fmt.Sprintf("malformed stack header %q: %s", string(buf[:n]), err))
	}
	return id
}
