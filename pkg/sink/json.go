package sink

import (
	"encoding/json"

	"github.com/matzehuels/bubblerow/pkg/lineup"
)

// RenderJSON encodes the frame as indented JSON.
func RenderJSON(fr lineup.Frame) ([]byte, error) {
	data, err := json.MarshalIndent(fr, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
