package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRoster(t *testing.T) []Student {
	t.Helper()
	mk := func(id, name, code, class string) Student {
		blob, err := json.Marshal(map[string]string{
			"id": id, "name": name, "studentId": code, "class": class,
		})
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		return Student{ID: id, Code: code, Name: name, Class: class, QRPayload: string(blob)}
	}
	return []Student{
		mk("HS001", "Nguyen Van A", "2024001", "10A1"),
		mk("HS002", "Tran Thi B", "2024002", "10A1"),
		mk("HS003", "Le Van C", "2024003", "10A2"),
	}
}

func TestResolveCanonicalPayloadSelfResolves(t *testing.T) {
	roster := testRoster(t)
	for _, want := range roster {
		got, ok := Resolve(want.QRPayload, roster)
		assert.True(t, ok, "payload for %s should resolve", want.ID)
		assert.Equal(t, want.ID, got.ID)
	}
}

func TestResolveStructuredIDAliases(t *testing.T) {
	roster := testRoster(t)

	// internalId may arrive under either recognized alias.
	for _, raw := range []string{
		`{"id":"HS002"}`,
		`{"studentId":"HS002"}`,
	} {
		got, ok := Resolve(raw, roster)
		assert.True(t, ok, "raw=%s", raw)
		assert.Equal(t, "HS002", got.ID, "raw=%s", raw)
	}

	// External code matches either field too.
	for _, raw := range []string{
		`{"id":"2024003"}`,
		`{"studentId":"2024003"}`,
	} {
		got, ok := Resolve(raw, roster)
		assert.True(t, ok, "raw=%s", raw)
		assert.Equal(t, "HS003", got.ID, "raw=%s", raw)
	}
}

func TestResolveNameClassFallback(t *testing.T) {
	roster := testRoster(t)

	// Unknown id but matching name+class resolves via the structured
	// fallback rather than failing.
	got, ok := Resolve(`{"id":"XX999","name":"Nguyen Van A","class":"10A1"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "HS001", got.ID)

	// Name alone without a class is not enough for this stage.
	_, ok = Resolve(`{"id":"XX999","class":"10A1"}`, roster)
	assert.False(t, ok)
}

func TestResolveRawLiteral(t *testing.T) {
	roster := testRoster(t)

	got, ok := Resolve("2024001", roster)
	assert.True(t, ok)
	assert.Equal(t, "HS001", got.ID)

	got, ok = Resolve("HS003", roster)
	assert.True(t, ok)
	assert.Equal(t, "HS003", got.ID)

	// Surrounding whitespace from sloppy encoders is tolerated.
	got, ok = Resolve("  2024002 \n", roster)
	assert.True(t, ok)
	assert.Equal(t, "HS002", got.ID)
}

func TestResolveStructuredPayloadCompare(t *testing.T) {
	// The stored payload carries a legacy id that no roster identity field
	// holds anymore; only parsing both sides can connect them.
	roster := []Student{
		{
			ID: "HS009", Code: "2024009", Name: "Pham Van D", Class: "11B2",
			QRPayload: `{"id":"LEGACY9","name":"Pham Van D","studentId":"OLD-9","class":"11B2"}`,
		},
	}

	got, ok := Resolve(`{"id":"LEGACY9"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "HS009", got.ID)

	got, ok = Resolve(`{"studentId":"OLD-9"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "HS009", got.ID)
}

func TestResolveFuzzyNameContainment(t *testing.T) {
	roster := testRoster(t)

	// Scanned name carries an honorific prefix; containment still matches.
	got, ok := Resolve(`{"name":"em NGUYEN VAN A"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "HS001", got.ID)

	// And the other direction: scanned name is a fragment of the roster name.
	got, ok = Resolve(`{"name":"tran thi b"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "HS002", got.ID)
}

func TestResolveOrderingPrefersExactOverFuzzy(t *testing.T) {
	roster := testRoster(t)

	// The payload id points at HS001 while the name would fuzzily match
	// HS002; the structured id stage must win.
	got, ok := Resolve(`{"id":"HS001","name":"Tran Thi B"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "HS001", got.ID)
}

func TestResolveNotFound(t *testing.T) {
	roster := testRoster(t)

	for _, raw := range []string{
		"",
		"nobody",
		`{"id":"ZZ999"}`,
		`{"name":"Pham Van D","class":"12C"}`,
		`{not json at all`,
	} {
		_, ok := Resolve(raw, roster)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestResolveEmptyRoster(t *testing.T) {
	_, ok := Resolve(`{"id":"HS001"}`, nil)
	assert.False(t, ok)
}

func TestResolveFirstRosterOrderMatchWins(t *testing.T) {
	roster := []Student{
		{ID: "A1", Code: "C1", Name: "Nguyen Van A", Class: "10A1"},
		{ID: "A2", Code: "C2", Name: "Nguyen Van A", Class: "10A1"},
	}
	got, ok := Resolve(`{"name":"Nguyen Van A","class":"10A1"}`, roster)
	assert.True(t, ok)
	assert.Equal(t, "A1", got.ID)
}
