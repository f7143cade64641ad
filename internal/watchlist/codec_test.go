package watchlist

import (
	"slices"
	"testing"

	"github.com/rickgao/coinwatch/internal/model"
)

func TestEncodeWritesEmptyMembers(t *testing.T) {
	data, err := encode([]model.Watchlist{{ID: "w1", Name: "A", Icon: "★"}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := `[{"id":"w1","name":"A","icon":"★","members":[]}]`
	if string(data) != want {
		t.Errorf("encode = %s, want %s", data, want)
	}
}

func TestDecodeMemberPrecedence(t *testing.T) {
	lists, dropped, err := decode([]byte(`[{"id":"w1","name":"A","members":["a"],"cryptoIds":["b"],"cryptos":["c"]},{"id":"w2","name":"B","cryptoIds":["b"],"cryptos":["c"]},{"id":"w3","name":"C","members":[],"cryptos":["c"]}]`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	want := [][]string{{"a"}, {"b"}, {}}
	for i, w := range lists {
		if !slices.Equal(w.Members, want[i]) {
			t.Errorf("%s members = %v, want %v", w.ID, w.Members, want[i])
		}
	}
}

func TestUniqueMembers(t *testing.T) {
	got := uniqueMembers([]string{"b", "a", "", "b", "c", "a"})
	if !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("uniqueMembers = %v, want [b a c]", got)
	}
	if got := uniqueMembers(nil); got == nil || len(got) != 0 {
		t.Errorf("uniqueMembers(nil) = %#v, want empty slice", got)
	}
}
