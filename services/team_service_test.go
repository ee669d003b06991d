package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/storage"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	objects map[string]string
	deleted []string
	failAll bool
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.failAll {
		return nil, errors.New("bucket unreachable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.objects[key] = string(data)
	return &storage.UploadResult{Key: key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (h *harness) teamService(uploader storage.FileUploader) TeamService {
	return NewTeamService(fakeTeams{h.db}, fakeChampionships{h.db}, fakeMatches{h.db}, fakeRoster{h.db}, fakeLineups{h.db},
		uploader, clockwork.NewFakeClockAt(testNow), h.logger)
}

func TestUploadEmblemReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.db.addTeam(10, models.SportSoccer)
	old := "teams/10/emblem_1.png"
	h.db.teams[10].EmblemKey = &old
	uploader := &fakeUploader{objects: map[string]string{old: "old"}}

	team, err := h.teamService(uploader).UploadEmblem(ctx, 10, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	wantKey := storage.TeamEmblemKey(10, "1740830400", ".png")
	require.NotNil(t, team.EmblemURL)
	assert.Equal(t, "https://cdn.example.com/"+wantKey, *team.EmblemURL)
	assert.Equal(t, "png-bytes", uploader.objects[wantKey])
	assert.Equal(t, []string{old}, uploader.deleted)
	assert.Equal(t, wantKey, *h.db.teams[10].EmblemKey)
}

func TestUploadEmblemErrors(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.db.addTeam(10, models.SportSoccer)

	_, err := h.teamService(nil).UploadEmblem(ctx, 10, "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUploaderUnavailable)

	uploader := &fakeUploader{objects: map[string]string{}}
	_, err = h.teamService(uploader).UploadEmblem(ctx, 10, "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidContentType)

	_, err = h.teamService(uploader).UploadEmblem(ctx, 99, "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrTeamNotFound)

	uploader.failAll = true
	_, err = h.teamService(uploader).UploadEmblem(ctx, 10, "image/png", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Nil(t, h.db.teams[10].EmblemKey)
}

func TestEligiblePlayers(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	semiFinals(h)
	svc := h.teamService(nil)

	all, err := svc.EligiblePlayers(ctx, 10, 1)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	h.db.lineup = append(h.db.lineup, models.FirstStringPlayer{MatchID: 1, TeamID: 10, PlayerRef: models.PlayerRef{PlayerID: intPtr(101)}})
	starters, err := svc.EligiblePlayers(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, starters, 1)
	assert.Equal(t, 101, *starters[0].PlayerID)

	_, err = svc.EligiblePlayers(ctx, 12, 1)
	assert.ErrorIs(t, err, ErrTeamNotInMatch)
}
