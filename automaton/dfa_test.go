package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DFA_Validate_OK(t *testing.T) {
	dfa := NewDFA[int]()
	dfa.AddState("0", false)
	dfa.AddState("1", true)
	dfa.Start = "0"
	dfa.AddTransition("0", 'a', "1")

	assert.NoError(t, dfa.Validate())
}

func Test_DFA_Validate_MissingStart(t *testing.T) {
	dfa := NewDFA[int]()
	dfa.AddState("0", false)

	assert.Error(t, dfa.Validate())
}

func Test_Minimize_MergesEquivalentStates(t *testing.T) {
	// two DFA states that both accept and have no outgoing transitions
	// should merge into one under finalMerge=true.
	dfa := NewDFA[int]()
	dfa.AddState("0", false)
	dfa.AddState("1", true)
	dfa.AddState("2", true)
	dfa.Start = "0"
	dfa.AddTransition("0", 'a', "1")
	dfa.AddTransition("0", 'b', "2")

	min, mapping := Minimize[int](dfa, true)

	assert := assert.New(t)
	assert.Len(min.States(), 2, "expected start state and one merged accept state")

	var mergedName string
	for name, members := range mapping {
		if len(members) == 2 {
			mergedName = name
		}
	}
	assert.NotEmpty(mergedName, "expected the two accepting states to merge")
}

func Test_Minimize_NoFinalMerge_KeepsAcceptingStatesDistinct(t *testing.T) {
	dfa := NewDFA[int]()
	dfa.AddState("0", false)
	dfa.AddState("1", true)
	dfa.AddState("2", true)
	dfa.Start = "0"
	dfa.AddTransition("0", 'a', "1")
	dfa.AddTransition("0", 'b', "2")

	min, _ := Minimize[int](dfa, false)

	assert.Len(t, min.States(), 3, "distinct accept states must not merge when finalMerge is false")
}

func Test_Freeze_RoundTrip(t *testing.T) {
	dfa := NewDFA[int]()
	dfa.AddState("0", false)
	dfa.AddState("1", true)
	dfa.Start = "0"
	dfa.AddTransition("0", 'x', "1")
	dfa.SetValue("1", 42)

	static, index := Freeze[int](dfa, func(v int) int { return v })

	assert := assert.New(t)
	assert.Equal(0, static.Start)
	to, ok := static.Next(index["0"], 'x')
	assert.True(ok)
	assert.Equal(index["1"], to)
	assert.True(static.Accepting[to])
	assert.Equal(42, static.Value[to])
}
