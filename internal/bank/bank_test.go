package bank

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/certprep/internal/grading"
	"github.com/mind-engage/certprep/internal/storage"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	keys := []string{}
	for _, tr := range c.Tracks() {
		keys = append(keys, tr.Key)
		assert.NotEmpty(t, tr.Questions, tr.Key)
	}
	assert.Equal(t, []string{"linux-plus", "lpi-101", "network-plus", "pentest-plus", "security-plus"}, keys)
	assert.GreaterOrEqual(t, len(c.Acronyms()), 30)

	fw, err := c.Sequencing("pbq-firewall")
	require.NoError(t, err)
	assert.Len(t, fw.Items, 8)
	assert.Len(t, fw.CorrectOrder, 8)
	assert.Equal(t, "fw-deny-all", fw.CorrectOrder[7])

	vpn, err := c.Config("pbq-vpn-config")
	require.NoError(t, err)
	assert.Len(t, vpn.Fields, 4)

	pbqs := c.PBQs()
	require.NotEmpty(t, pbqs)
	assert.Equal(t, "pbq-firewall", pbqs[0].ID)
	assert.Equal(t, KindSequencing, pbqs[0].Kind)

	_, err = c.Matching("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestion_GradingQ(t *testing.T) {
	one := 1
	single := Question{ID: "s", Options: []string{"a", "b"}, CorrectAnswer: &one}
	assert.Equal(t, grading.Q{ID: "s", Mode: grading.ModeSingle, AnswerKey: []int{1}}, single.GradingQ())
	assert.Equal(t, 1, single.Selections())

	multi := Question{ID: "m", MultiSelect: true, CorrectAnswers: []int{0, 2}}
	assert.Equal(t, grading.ModeMulti, multi.GradingQ().Mode)
	assert.Equal(t, 2, multi.Selections())
}

func TestDecodePack_SchemaErrors(t *testing.T) {
	tests := map[string]string{
		"not json":        `{`,
		"unknown section": `{"widgets":[]}`,
		"both answer kinds": `{"tracks":[{"key":"t","title":"T","profile":"p","questions":[
			{"id":"q","prompt":"?","options":["a","b"],"correctAnswer":0,"correctAnswers":[1],"multiSelect":true}]}]}`,
		"too few options": `{"tracks":[{"key":"t","title":"T","profile":"p","questions":[
			{"id":"q","prompt":"?","options":["a"],"correctAnswer":0}]}]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePack([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidPack)
		})
	}
}

func TestDecodePack_SemanticErrors(t *testing.T) {
	tests := map[string]string{
		"answer out of range": `{"tracks":[{"key":"t","title":"T","profile":"p","questions":[
			{"id":"q","prompt":"?","options":["a","b"],"correctAnswer":5}]}]}`,
		"order not a permutation": `{"sequencing":[{"id":"s","number":1,"type":"x","title":"S",
			"items":[{"id":"a"},{"id":"b"}],"correctOrder":["a","c"]}]}`,
		"order too short": `{"sequencing":[{"id":"s","number":1,"type":"x","title":"S",
			"items":[{"id":"a"},{"id":"b"}],"correctOrder":["a"]}]}`,
		"answer not a choice": `{"matching":[{"id":"m","number":1,"type":"x","title":"M",
			"prompts":[{"id":"p","text":"t","answer":"zz"}],"choices":["a","b"]}]}`,
		"config value not an option": `{"config":[{"id":"c","number":1,"type":"x","title":"C",
			"fields":[{"name":"f","options":["a","b"]}],"correct":{"f":"z"}}]}`,
		"duplicate prompt id": `{"matching":[{"id":"m","number":1,"type":"x","title":"M",
			"prompts":[{"id":"p1","text":"t","answer":"a"},{"id":"p1","text":"u","answer":"b"}],"choices":["a","b"]}]}`,
		"duplicate config field": `{"config":[{"id":"c","number":1,"type":"x","title":"C",
			"fields":[{"name":"cipher","options":["a","b"]},{"name":"cipher","options":["a","b"]}],
			"correct":{"cipher":"a","hash":"b"}}]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePack([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidPack)
		})
	}
}

const extraPack = `{
  "tracks": [{"key": "security-plus", "title": "Security+ (override)", "profile": "comptia.sy0-701",
    "questions": [{"id": "x-1", "prompt": "Pick b", "options": ["a", "b"], "correctAnswer": 1}]}],
  "config": [{"id": "pbq-extra", "number": 42, "type": "dns", "title": "DNS hardening",
    "fields": [{"name": "dnssec", "options": ["off", "on"]}], "correct": {"dnssec": "on"}}]
}`

func TestCatalogWith_ReplacesById(t *testing.T) {
	base, err := Builtin()
	require.NoError(t, err)
	p, err := DecodePack([]byte(extraPack))
	require.NoError(t, err)

	c := base.With(p)
	tr, err := c.Track("security-plus")
	require.NoError(t, err)
	assert.Equal(t, "Security+ (override)", tr.Title)
	assert.Len(t, tr.Questions, 1)

	orig, _ := base.Track("security-plus")
	assert.NotEqual(t, tr.Title, orig.Title, "base catalog must stay untouched")

	_, err = c.Config("pbq-extra")
	assert.NoError(t, err)
}

func TestRegistry_ReloadFromBlobStore(t *testing.T) {
	ctx := context.Background()
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	base, err := Builtin()
	require.NoError(t, err)

	r := NewRegistry(base, bs)
	key, err := PackKey("extra")
	require.NoError(t, err)
	_, err = bs.Put(ctx, key, strings.NewReader(extraPack), int64(len(extraPack)))
	require.NoError(t, err)

	require.NoError(t, r.Reload(ctx))
	_, err = r.Catalog().Config("pbq-extra")
	assert.NoError(t, err)

	_, err = bs.Put(ctx, PackPrefix+"broken.json", strings.NewReader(`{"widgets":1}`), -1)
	require.NoError(t, err)
	assert.Error(t, r.Reload(ctx))
	_, err = r.Catalog().Config("pbq-extra")
	assert.NoError(t, err, "failed reload keeps the previous catalog")
}

func TestRegistry_ConcurrentUploadsAllSurvive(t *testing.T) {
	ctx := context.Background()
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	base, err := Builtin()
	require.NoError(t, err)
	r := NewRegistry(base, bs)

	const uploads = 8
	var wg sync.WaitGroup
	errs := make(chan error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pack := fmt.Sprintf(`{"config":[{"id":"pbq-up-%d","number":%d,"type":"dns","title":"Upload",
				"fields":[{"name":"dnssec","options":["off","on"]}],"correct":{"dnssec":"on"}}]}`, i, 100+i)
			key, err := PackKey(fmt.Sprintf("up-%d", i))
			if err == nil {
				_, err = bs.Put(ctx, key, strings.NewReader(pack), int64(len(pack)))
			}
			if err == nil {
				err = r.Reload(ctx)
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for i := 0; i < uploads; i++ {
		_, err := r.Catalog().Config(fmt.Sprintf("pbq-up-%d", i))
		assert.NoError(t, err, "upload %d lost", i)
	}
}

func TestPackKey(t *testing.T) {
	k, err := PackKey("network-extra.json")
	require.NoError(t, err)
	assert.Equal(t, "packs/network-extra.json", k)

	for _, bad := range []string{"", "../x", "a/b", ".hidden"} {
		_, err := PackKey(bad)
		assert.Error(t, err, bad)
	}
}
