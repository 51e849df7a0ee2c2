package utils

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// OrderedMapToString converts an orderedmap to a string of space separated key=value pairs, keeping the order
// the keys were set in.
func OrderedMapToString(data *orderedmap.OrderedMap[string, any]) string {
	if data == nil || data.Len() == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for el := data.Front(); el != nil; el = el.Next() {
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", el.Key, el.Value)
	}
	sb.WriteByte(']')
	return sb.String()
}
