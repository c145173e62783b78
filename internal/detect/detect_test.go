package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"traineewatch/internal/domain"
)

func listing(id string) domain.Listing {
	return domain.Listing{ID: id, Title: "Posting " + id}
}

func TestNovelSetDifference(t *testing.T) {
	history := []domain.Listing{listing("a"), listing("b")}
	batch := []domain.Listing{listing("a"), listing("b"), listing("c")}

	novel := Novel(batch, KnownIDs(history))

	assert.Len(t, novel, 1)
	assert.Equal(t, "c", novel[0].ID)
}

func TestNovelPreservesBatchOrder(t *testing.T) {
	history := []domain.Listing{listing("x")}
	batch := []domain.Listing{listing("d"), listing("x"), listing("b"), listing("a")}

	novel := Novel(batch, KnownIDs(history))

	ids := make([]string, len(novel))
	for i, l := range novel {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"d", "b", "a"}, ids)
}

func TestNovelEmptyHistory(t *testing.T) {
	batch := []domain.Listing{listing("a"), listing("b")}
	novel := Novel(batch, KnownIDs(nil))
	assert.Equal(t, batch, novel)
}

func TestNovelNothingNew(t *testing.T) {
	history := []domain.Listing{listing("a"), listing("b")}
	batch := []domain.Listing{listing("a"), listing("b")}
	assert.Empty(t, Novel(batch, KnownIDs(history)))
}
