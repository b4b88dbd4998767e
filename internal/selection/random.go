package selection

import (
	"math/rand/v2"

	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/domain"
	"github.com/diwanapp/diwan-server/internal/errors"
)

// RandomPoem picks a poem uniformly at random. A nil rng uses the package-level source.
func RandomPoem(idx *corpus.Index, rng *rand.Rand) (domain.Poem, error) {
	n := idx.Len()
	if n == 0 {
		return domain.Poem{}, errors.EmptyCorpus("no poems to choose from")
	}

	var i int
	if rng != nil {
		i = rng.IntN(n)
	} else {
		i = rand.IntN(n)
	}
	return idx.Get(i)
}
