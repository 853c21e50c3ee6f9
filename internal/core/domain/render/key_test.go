package render_test

import (
	"fmt"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/og-render/internal/core/domain/render"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	params := map[string]string{"title": "Hello World", "author": "Scott Spence", "website": "scottspence.com", "theme": "dark"}
	first := render.DeriveKey(params)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, render.DeriveKey(params))
	}
}

func TestDeriveKeyOrderIndependent(t *testing.T) {
	a := map[string]string{}
	a["title"] = "t"
	a["author"] = "a"
	a["website"] = "w"
	a["theme"] = "light"

	b := map[string]string{}
	b["theme"] = "light"
	b["website"] = "w"
	b["author"] = "a"
	b["title"] = "t"

	require.Equal(t, render.DeriveKey(a), render.DeriveKey(b))
}

func TestDeriveKeyValueSensitive(t *testing.T) {
	base := map[string]string{"title": "t", "author": "a", "website": "w", "theme": "light"}
	baseKey := render.DeriveKey(base)

	for name := range base {
		changed := map[string]string{}
		for k, v := range base {
			changed[k] = v
		}
		changed[name] = changed[name] + "x"
		require.NotEqual(t, baseKey, render.DeriveKey(changed), "changing %q must change the key", name)
	}
}

func TestDeriveKeyPairBoundaries(t *testing.T) {
	// Values must not bleed across pair boundaries.
	a := map[string]string{"a": "bc", "d": "e"}
	b := map[string]string{"a": "b", "cd": "e"}
	require.NotEqual(t, render.DeriveKey(a), render.DeriveKey(b))
}

func TestDeriveKeyFilesystemSafe(t *testing.T) {
	key := render.DeriveKey(map[string]string{"title": `../../etc/passwd <script> "quoted"`})
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), key)
}

func TestDeriveKeyRandomizedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"title", "author", "website", "theme", "extra"}

	randomParams := func() map[string]string {
		params := map[string]string{}
		for _, n := range names {
			params[n] = fmt.Sprintf("%x", rng.Int63())
		}
		return params
	}

	for i := 0; i < 100; i++ {
		params := randomParams()
		key := render.DeriveKey(params)
		require.Equal(t, key, render.DeriveKey(params))

		mutated := map[string]string{}
		for k, v := range params {
			mutated[k] = v
		}
		victim := names[rng.Intn(len(names))]
		mutated[victim] = mutated[victim] + "!"
		require.NotEqual(t, key, render.DeriveKey(mutated))
	}
}
