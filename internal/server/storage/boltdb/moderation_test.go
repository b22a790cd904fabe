package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmateo/privmsg/internal/models"
)

func TestAddBlock_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	added, err := s.AddBlock(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, added)

	// Second call must report the existing edge without duplicating it.
	added, err = s.AddBlock(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, added)

	ids, err := s.GetBlockedIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestBlocks_AreDirected(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.AddBlock(ctx, "alice", "bob")
	require.NoError(t, err)

	blocked, err := s.IsBlocked(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, blocked)

	// The reverse edge must not exist.
	blocked, err = s.IsBlocked(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestReports_AppendOnly(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	report := &models.Report{
		ReportedBy:   "alice",
		ReportedUser: "bob",
		Reason:       "spam",
		ReportedAt:   time.Now(),
	}

	// Identical reports are kept: no dedup.
	require.NoError(t, s.SaveReport(ctx, report))
	require.NoError(t, s.SaveReport(ctx, report))

	reports, err := s.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "spam", reports[0].Reason)
}

func TestBanUsername(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	banned, err := s.IsUsernameBanned(ctx, "mallory")
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, s.BanUsername(ctx, "mallory"))

	banned, err = s.IsUsernameBanned(ctx, "mallory")
	require.NoError(t, err)
	assert.True(t, banned)

	require.NoError(t, s.UnbanUsername(ctx, "mallory"))

	banned, err = s.IsUsernameBanned(ctx, "mallory")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBlockIP(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	blocked, err := s.IsIPBlocked(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, s.BlockIP(ctx, "1.2.3.4"))

	blocked, err = s.IsIPBlocked(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, blocked)

	ips, err := s.ListBlockedIPs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.3.4"}, ips)

	require.NoError(t, s.UnblockIP(ctx, "1.2.3.4"))

	blocked, err = s.IsIPBlocked(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, blocked)
}
