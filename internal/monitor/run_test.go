package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traineewatch/internal/domain"
	"traineewatch/internal/extract"
	"traineewatch/internal/extract/generic"
	"traineewatch/internal/history"
	"traineewatch/internal/logging"
	"traineewatch/internal/notify"
)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (string, error) {
	return f.html, f.err
}

type fakeNotifier struct {
	batches [][]domain.Listing
	err     error
}

func (f *fakeNotifier) Notify(listings []domain.Listing, meta notify.Meta) error {
	f.batches = append(f.batches, listings)
	return f.err
}

func item(title, href string) string {
	return `<div class="job-item"><h3>` + title + `</h3><div class="company">Acme GmbH</div><a href="` + href + `">view</a></div>`
}

func pageOf(items ...string) string {
	out := `<html><body>`
	for _, it := range items {
		out += it
	}
	return out + `</body></html>`
}

func newRunner(t *testing.T, fetcher *fakeFetcher, notifier *fakeNotifier) (*Runner, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	store := history.OpenCSV(path, logging.Nop())
	src := generic.New("testsite", "https://example.org/traineeships", "https://example.org", logging.Nop())
	return New(src, fetcher, store, notifier, "Test Site", logging.Nop()), path
}

func TestRunFirstPassNotifiesAndPersistsAll(t *testing.T) {
	page := pageOf(item("Alpha Posting", "/t/a"), item("Beta Posting", "/t/b"), item("Gamma Posting", "/t/c"))
	notifier := &fakeNotifier{}
	r, path := newRunner(t, &fakeFetcher{html: page}, notifier)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 3, res.Batch)
	assert.Equal(t, 3, res.Novel)

	require.Len(t, notifier.batches, 1)
	assert.Len(t, notifier.batches[0], 3)

	got, err := history.OpenCSV(path, logging.Nop()).Load()
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRunAnnouncesOnlyNovelListings(t *testing.T) {
	fetcher := &fakeFetcher{html: pageOf(item("Alpha Posting", "/t/a"), item("Beta Posting", "/t/b"))}
	notifier := &fakeNotifier{}
	r, _ := newRunner(t, fetcher, notifier)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	fetcher.html = pageOf(item("Alpha Posting", "/t/a"), item("Beta Posting", "/t/b"), item("Gamma Posting", "/t/c"))
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Batch)
	assert.Equal(t, 1, res.Novel)

	require.Len(t, notifier.batches, 2)
	require.Len(t, notifier.batches[1], 1)
	assert.Equal(t, "Gamma Posting", notifier.batches[1][0].Title)
}

func TestRunIdempotentOnUnchangedPage(t *testing.T) {
	fetcher := &fakeFetcher{html: pageOf(item("Alpha Posting", "/t/a"), item("Beta Posting", "/t/b"))}
	notifier := &fakeNotifier{}
	r, path := newRunner(t, fetcher, notifier)

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 0, res.Novel)
	require.Len(t, notifier.batches, 2)
	assert.Empty(t, notifier.batches[1])

	got, err := history.OpenCSV(path, logging.Nop()).Load()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRunFetchFailureLeavesHistoryUntouched(t *testing.T) {
	wantErr := errors.New("connect: connection refused")
	notifier := &fakeNotifier{}
	r, path := newRunner(t, &fakeFetcher{err: wantErr}, notifier)

	res, err := r.Run(context.Background())
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, notifier.batches)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunStructureChangedFails(t *testing.T) {
	notifier := &fakeNotifier{}
	r, path := newRunner(t, &fakeFetcher{html: `<html><body><p>redesigned</p></body></html>`}, notifier)

	res, err := r.Run(context.Background())
	assert.ErrorIs(t, err, extract.ErrStructureChanged)
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, notifier.batches)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunNotifyFailureStillPersists(t *testing.T) {
	fetcher := &fakeFetcher{html: pageOf(item("Alpha Posting", "/t/a"), item("Beta Posting", "/t/b"))}
	notifyErr := errors.New("telegram: 502 bad gateway")
	r, path := newRunner(t, fetcher, &fakeNotifier{err: notifyErr})

	res, err := r.Run(context.Background())
	assert.ErrorIs(t, err, notifyErr)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 2, res.Novel)

	got, loadErr := history.OpenCSV(path, logging.Nop()).Load()
	require.NoError(t, loadErr)
	assert.Len(t, got, 2)
}
