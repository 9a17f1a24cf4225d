package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qrattend/internal/engine"
)

func TestEncodePayloadShape(t *testing.T) {
	s := Student{ID: "HS001", Code: "2024001", Name: "Nguyen Van A", Class: "10A1"}

	// The exact field naming and order is the compatibility contract with
	// printed QR codes.
	want := `{"id":"HS001","name":"Nguyen Van A","studentId":"2024001","class":"10A1"}`
	assert.Equal(t, want, EncodePayload(s))
}

func TestEncodePayloadSelfResolves(t *testing.T) {
	s := Student{ID: "HS002", Code: "2024002", Name: "Tran Thi B", Class: "10A1"}
	s.QRPayload = EncodePayload(s)

	got, ok := engine.Resolve(s.QRPayload, EngineAll([]Student{s}))
	assert.True(t, ok)
	assert.Equal(t, s.ID, got.ID)
}

func TestValidate(t *testing.T) {
	ok := Student{Code: "2024001", Name: "Nguyen Van A", Class: "10A1"}
	assert.NoError(t, ok.Validate())

	assert.Error(t, Student{Code: "2024001", Class: "10A1"}.Validate())
	assert.Error(t, Student{Name: "Nguyen Van A", Class: "10A1"}.Validate())
	assert.Error(t, Student{Code: "2024001", Name: "Nguyen Van A"}.Validate())
}

func TestEngineAllPreservesOrder(t *testing.T) {
	in := []Student{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out := EngineAll(in)
	assert.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
	}
}

func TestQRPNG(t *testing.T) {
	s := Student{ID: "HS001", Code: "2024001", Name: "Nguyen Van A", Class: "10A1"}
	png, err := QRPNG(s, 0)
	assert.NoError(t, err)
	// PNG magic header.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
