package licensing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offlinelicense/internal/license"
	"offlinelicense/internal/models"
	"offlinelicense/internal/testutil"
)

var seed = []byte("sample.name@sample.domain.com")

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(context.Background(), testutil.OpenDB(t), testutil.Operator(t), nil)
	require.NoError(t, err)
	return svc
}

func TestIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	rec, err := svc.Issue(ctx, seed, "")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, SeedDigest(seed), rec.SeedDigest)
	assert.NotContains(t, rec.SeedDigest, string(seed))
	assert.Equal(t, license.Valid, svc.Validate(ctx, rec.DisplayKey, "user-1"))
	assert.Equal(t, license.Invalid, svc.Validate(ctx, "DEAD-BEEF", "user-1"))

	issued, err := svc.ListIssued(ctx, 10)
	require.NoError(t, err)
	require.Len(t, issued, 1)
	assert.Equal(t, rec.DisplayKey, issued[0].DisplayKey)

	var logs []models.AuditLog
	require.NoError(t, svc.db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, ActionIssue, logs[0].Action)
	assert.Equal(t, ActionValidate, logs[1].Action)
	assert.JSONEq(t, `{"status":"invalid"}`, string(logs[2].Metadata))
	require.NotNil(t, logs[1].UserID)
	assert.Equal(t, "user-1", *logs[1].UserID)
}

func TestAnonymousValidateIsNotAudited(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	rec, err := svc.Issue(ctx, seed, "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, license.Valid, svc.Validate(ctx, rec.DisplayKey, ""))
		assert.Equal(t, license.Invalid, svc.Validate(ctx, "DEAD-BEEF", ""))
	}

	var count int64
	require.NoError(t, svc.db.Model(&models.AuditLog{}).Where("action = ?", ActionValidate).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIssueEmptySeed(t *testing.T) {
	_, err := newService(t).Issue(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrEmptySeed)
}

func TestRevokeSeed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	rec, err := svc.Issue(ctx, seed, "")
	require.NoError(t, err)

	entry, err := svc.RevokeSeed(ctx, seed, "", "chargeback")
	require.NoError(t, err)
	assert.Equal(t, rec.Fragment, entry.Fragment)
	assert.Equal(t, "chargeback", entry.Reason)
	assert.Equal(t, license.Blacklisted, svc.Validate(ctx, rec.DisplayKey, ""))

	// Revoking twice keeps a single row.
	_, err = svc.RevokeSeed(ctx, seed, "", "again")
	require.NoError(t, err)
	list, err := svc.ListBlacklist(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "chargeback", list[0].Reason)

	_, err = svc.RevokeSeed(ctx, nil, "", "")
	assert.ErrorIs(t, err, ErrEmptySeed)
}

func TestRevokeKey(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	rec, err := svc.Issue(ctx, seed, "")
	require.NoError(t, err)

	_, err = svc.RevokeKey(ctx, "zz", "", "")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = svc.RevokeKey(ctx, "00112233", "", "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	entry, err := svc.RevokeKey(ctx, rec.DisplayKey, "", "leaked")
	require.NoError(t, err)
	assert.Equal(t, rec.Fragment, entry.Fragment)
	assert.Equal(t, license.Blacklisted, svc.Validate(ctx, rec.DisplayKey, ""))

	// A blacklisted key can be revoked again without error.
	_, err = svc.RevokeKey(ctx, rec.DisplayKey, "", "leaked")
	assert.NoError(t, err)
}

func TestBlacklistSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	svc, err := New(ctx, db, testutil.Operator(t), nil)
	require.NoError(t, err)
	rec, err := svc.Issue(ctx, seed, "")
	require.NoError(t, err)
	_, err = svc.RevokeSeed(ctx, seed, "", "")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.BlacklistEntry{Fragment: "not-hex"}).Error)

	restarted, err := New(ctx, db, testutil.Operator(t), nil)
	require.NoError(t, err)
	assert.Equal(t, license.Blacklisted, restarted.Validate(ctx, rec.DisplayKey, ""))
}

func TestConcurrentIssueValidateRevoke(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	op := testutil.Operator(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := []byte(fmt.Sprintf("user-%d@example.com", i))
			key, err := op.GenerateLicenseKey(s)
			if !assert.NoError(t, err) {
				return
			}
			display := op.SerializedKey(key)
			if i%2 == 0 {
				_, err := svc.RevokeSeed(ctx, s, "", "")
				assert.NoError(t, err)
				assert.Equal(t, license.Blacklisted, svc.Validate(ctx, display, ""))
			} else {
				assert.Equal(t, license.Valid, svc.Validate(ctx, display, ""))
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, svc.IsBlacklisted(op.SeedFragment([]byte("user-0@example.com"))))
}
