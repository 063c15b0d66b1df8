package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/turing-graph/pkg/machine"
)

// FuzzRoundTrip checks that rules written from a graph parse back to the
// same states with the same per-state rule sets.
// Run with: go test -fuzz=FuzzRoundTrip -fuzztime=30s ./pkg/graph/
func FuzzRoundTrip(f *testing.F) {
	f.Add("q_i {ç,ç→ç,R,R} q_a;")
	f.Add("q_i {0,ç→0,R,R} q_i;\nq_i {ç,ç→ç,N,N} q_a;\nq_i {1,ç→1,R,R} q_i;")
	f.Add("q_a {x,y,z→p,q,L,N,R} q_b;\nq_b {x,x,x→x,x,N,N,N} q_a;")
	f.Add("q_x {} q_y;")
	f.Add("q_a {} q_b;\nq_a {0,ç→0,R,R} q_a;")

	f.Fuzz(func(t *testing.T, data string) {
		m, err := machine.Parse(data)
		if err != nil {
			return
		}
		g, err := RulesToGraph(m)
		require.NoError(t, err)
		text, err := GraphToRules(g, m)
		require.NoError(t, err)
		back, err := machine.Parse(text)
		require.NoError(t, err, text)

		assert.Equal(t, m.Len(), back.Len(), text)
		assert.Equal(t, ruleSets(t, m), ruleSets(t, back), text)
	})
}
