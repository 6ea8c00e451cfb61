package advisor

import "fmt"

var DebugEnabled bool

// Debugf prints messages only if DebugEnabled is true.
func Debugf(format string, args ...interface{}) {
	if DebugEnabled {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}
