package messaging

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"

	"russify/internal/database/dbtest"
	"russify/internal/domain"
	"russify/internal/modules/upload"
	"russify/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events [][2]int64
}

func (n *recordingNotifier) NotifyThread(partnerID, requestID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, [2]int64{partnerID, requestID})
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	notifier *recordingNotifier
	partner  *domain.User
	admin    *domain.User
	request  *domain.ServiceRequest
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	partner := &domain.User{Name: "P", Phone: "+1", PasswordHash: "x", Role: domain.RolePartner}
	admin := &domain.User{Name: "A", Phone: "+2", PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, users.Create(ctx, partner))
	require.NoError(t, users.Create(ctx, admin))

	requests := repository.NewRequestRepository(db)
	sr := &domain.ServiceRequest{
		UserID: partner.ID, ClientName: "Ivan", ClientPhone: "+3",
		CarBrand: "Toyota", CarModel: "Camry", CarYear: 2020,
		ServiceType: domain.ServiceMultimedia, Status: domain.StatusPending,
	}
	require.NoError(t, requests.Create(ctx, sr))

	files := upload.NewService(repository.NewUploadRepository(db), t.TempDir(), "/static", 0, nil)
	notifier := &recordingNotifier{}

	return &fixture{
		db:       db,
		svc:      NewService(requests, repository.NewMessageRepository(db), files, notifier, nil),
		notifier: notifier,
		partner:  partner,
		admin:    admin,
		request:  sr,
	}
}

func (f *fixture) partnerViewer() Viewer { return Viewer{UserID: f.partner.ID, Role: domain.RolePartner} }
func (f *fixture) adminViewer() Viewer   { return Viewer{UserID: f.admin.ID, Role: domain.RoleAdmin} }

func text(s string) *string { return &s }

func TestSendMessage_RejectsEmpty(t *testing.T) {
	f := newFixture(t)

	for _, req := range []SendMessageRequest{
		{},
		{MessageText: text("   \n\t")},
		{MessageText: text(""), File: &FilePayload{Name: "a.txt"}},
	} {
		_, err := f.svc.SendMessage(context.Background(), f.partnerViewer(), f.request.ID, req)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, f.notifier.events)
}

func TestSendMessage_SenderTypeFollowsRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fromPartner, err := f.svc.SendMessage(ctx, f.partnerViewer(), f.request.ID, SendMessageRequest{MessageText: text("  Hello ")})
	require.NoError(t, err)
	assert.Equal(t, domain.SenderClient, fromPartner.SenderType)
	assert.Equal(t, "Hello", *fromPartner.MessageText)

	fromAdmin, err := f.svc.SendMessage(ctx, f.adminViewer(), f.request.ID, SendMessageRequest{MessageText: text("Hi")})
	require.NoError(t, err)
	assert.Equal(t, domain.SenderCompany, fromAdmin.SenderType)

	assert.Equal(t, [][2]int64{{f.partner.ID, f.request.ID}, {f.partner.ID, f.request.ID}}, f.notifier.events)
}

func TestSendMessage_Attachment(t *testing.T) {
	f := newFixture(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	msg, err := f.svc.SendMessage(context.Background(), f.partnerViewer(), f.request.ID, SendMessageRequest{
		File: &FilePayload{
			Content: base64.StdEncoding.EncodeToString(png),
			Name:    "dash.png",
			Type:    "image/png",
		},
	})
	require.NoError(t, err)
	assert.Nil(t, msg.MessageText)
	require.NotNil(t, msg.FileURL)
	assert.Equal(t, "dash.png", *msg.FileName)
	assert.Equal(t, "image/png", *msg.FileType)
	assert.True(t, msg.HasImage())
}

func TestSendMessage_FileSizeBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, f.partnerViewer(), f.request.ID, SendMessageRequest{
		File: &FilePayload{Content: base64.StdEncoding.EncodeToString(make([]byte, 10*1024*1024+1)), Name: "big.bin"},
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.svc.SendMessage(ctx, f.partnerViewer(), f.request.ID, SendMessageRequest{
		File: &FilePayload{Content: base64.StdEncoding.EncodeToString(make([]byte, 10*1024*1024)), Name: "exact.bin"},
	})
	assert.NoError(t, err)
}

func TestSendMessage_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stranger := Viewer{UserID: f.partner.ID + 100, Role: domain.RolePartner}
	_, err := f.svc.SendMessage(ctx, stranger, f.request.ID, SendMessageRequest{MessageText: text("hi")})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.LoadThread(ctx, stranger, f.request.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.SendMessage(ctx, f.adminViewer(), 9999, SendMessageRequest{MessageText: text("hi")})
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestSendMessage_LockedRequest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, repository.NewRequestRepository(f.db).UpdateStatus(context.Background(), f.request.ID, domain.StatusToDelete))

	_, err := f.svc.SendMessage(context.Background(), f.adminViewer(), f.request.ID, SendMessageRequest{MessageText: text("hi")})
	assert.ErrorIs(t, err, ErrRequestLocked)

	// still readable
	_, err = f.svc.LoadThread(context.Background(), f.adminViewer(), f.request.ID)
	assert.NoError(t, err)
}

func TestLoadThread_OrderAndUnreadReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, s := range []string{"one", "two", "three"} {
		_, err := f.svc.SendMessage(ctx, f.adminViewer(), f.request.ID, SendMessageRequest{MessageText: text(s)})
		require.NoError(t, err)
	}
	_, err := f.svc.SendMessage(ctx, f.partnerViewer(), f.request.ID, SendMessageRequest{MessageText: text("reply")})
	require.NoError(t, err)

	counts, err := f.svc.UnreadCounts(ctx, f.partnerViewer(), []int64{f.request.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, counts[f.request.ID])

	adminCounts, err := f.svc.UnreadCounts(ctx, f.adminViewer(), []int64{f.request.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, adminCounts[f.request.ID])

	thread, err := f.svc.LoadThread(ctx, f.partnerViewer(), f.request.ID)
	require.NoError(t, err)
	require.Len(t, thread, 4)
	var got []string
	for _, m := range thread {
		got = append(got, *m.MessageText)
	}
	assert.Equal(t, []string{"one", "two", "three", "reply"}, got)

	counts, err = f.svc.UnreadCounts(ctx, f.partnerViewer(), []int64{f.request.ID})
	require.NoError(t, err)
	assert.Zero(t, counts[f.request.ID])

	// the partner opening the thread leaves the admin's count alone
	adminCounts, err = f.svc.UnreadCounts(ctx, f.adminViewer(), []int64{f.request.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, adminCounts[f.request.ID])

	again, err := f.svc.LoadThread(ctx, f.partnerViewer(), f.request.ID)
	require.NoError(t, err)
	for i := range thread {
		assert.Equal(t, thread[i].ID, again[i].ID)
	}
}

func TestFillUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, f.partnerViewer(), f.request.ID, SendMessageRequest{MessageText: text("ping")})
	require.NoError(t, err)

	reqs := []domain.ServiceRequest{*f.request, {ID: 12345}}
	require.NoError(t, f.svc.FillUnread(ctx, f.adminViewer(), reqs))
	assert.Equal(t, 1, reqs[0].UnreadCount)
	assert.Zero(t, reqs[1].UnreadCount)
}
