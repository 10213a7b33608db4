package validator

import (
	"testing"

	"ctchen222/tictactoe/pkg/proto"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestStruct_ClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     proto.ClientMessage
		wantErr bool
	}{
		{name: "move with index", msg: proto.ClientMessage{Type: "move", Index: intPtr(4)}},
		{name: "move at zero", msg: proto.ClientMessage{Type: "move", Index: intPtr(0)}},
		{name: "reset", msg: proto.ClientMessage{Type: "reset"}},
		{name: "move without index", msg: proto.ClientMessage{Type: "move"}, wantErr: true},
		{name: "missing type", msg: proto.ClientMessage{}, wantErr: true},
		{name: "unknown type", msg: proto.ClientMessage{Type: "undo"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetValidator_IsShared(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
