// Package persona holds the bot's character: the system prompt sent with every
// request and the optional transform applied to generated answers.
package persona

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// AnswerProbability is the chance that a real answer is kept (wrapped in an
// intro and outro) rather than replaced by a refusal.
const AnswerProbability = 0.65

//go:embed pools.yaml
var defaultPools []byte

// Pools are the phrase lists the transform picks from
type Pools struct {
	Intros   []string `yaml:"intros"`
	Outros   []string `yaml:"outros"`
	Refusals []string `yaml:"refusals"`
}

// Rand is the subset of *rand.Rand used by the transform
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// DefaultPools returns the built-in phrase pools
func DefaultPools() Pools {
	pools, err := parsePools(defaultPools)
	if err != nil {
		panic(fmt.Sprintf("persona: invalid embedded pools: %v", err))
	}
	return pools
}

// LoadPools reads phrase pools from a YAML file
func LoadPools(path string) (Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pools{}, fmt.Errorf("read persona file: %w", err)
	}
	return parsePools(data)
}

func parsePools(data []byte) (Pools, error) {
	var pools Pools
	if err := yaml.Unmarshal(data, &pools); err != nil {
		return Pools{}, fmt.Errorf("parse persona pools: %w", err)
	}
	if len(pools.Intros) == 0 || len(pools.Outros) == 0 || len(pools.Refusals) == 0 {
		return Pools{}, fmt.Errorf("persona pools need at least one intro, outro and refusal")
	}
	return pools, nil
}

// Transformer reframes answers in the bot's voice
type Transformer struct {
	pools Pools
	rng   Rand
}

// NewTransformer creates a transformer. A nil rng uses a randomly seeded source.
func NewTransformer(pools Pools, rng Rand) *Transformer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Transformer{pools: pools, rng: rng}
}

// Apply wraps answer between an intro and an outro, or with the complementary
// probability discards it and returns a refusal.
func (t *Transformer) Apply(answer string) string {
	if t.rng.Float64() < AnswerProbability {
		intro := t.pick(t.pools.Intros)
		outro := t.pick(t.pools.Outros)
		return intro + "\n\n" + answer + "\n\n" + outro
	}
	return t.pick(t.pools.Refusals)
}

func (t *Transformer) pick(pool []string) string {
	return pool[t.rng.IntN(len(pool))]
}
