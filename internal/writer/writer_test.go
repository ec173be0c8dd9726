package writer

import (
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrogolib/assert"
)

var program = []byte{
	0x22, 0x06, // 200: CALL 206
	0x12, 0x02, // 202: JP 202
	0xAB, 0xCD, // 204: data
	0x00, 0xEE, // 206: RET
}

func TestWriter_Write(t *testing.T) {
	var sb strings.Builder
	w := New(disasm.Trace(program, 0x200), &sb, Options{})
	assert.NoError(t, w.Write())

	output := sb.String()
	assert.Contains(t, output, ".org $200\n")
	assert.Contains(t, output, "_label_202:\n")
	assert.Contains(t, output, "_func_206:\n")
	assert.Contains(t, output, "  .byte $AB, $CD\n")
}

func TestWriter_Comments(t *testing.T) {
	var sb strings.Builder
	w := New(disasm.Trace(program, 0x200), &sb, Options{HexComments: true, OffsetComments: true})
	assert.NoError(t, w.Write())

	output := sb.String()
	assert.Contains(t, output, "; $200  22 06\n")
	assert.Contains(t, output, "; $204\n")
}

func TestWriter_DataBundling(t *testing.T) {
	data := make([]byte, 20)
	data[0], data[1] = 0x12, 0x00 // JP 200
	var sb strings.Builder
	w := New(disasm.Trace(data, 0x200), &sb, Options{})
	assert.NoError(t, w.Write())

	lines := strings.Count(sb.String(), ".byte")
	assert.Equal(t, 3, lines)
}
