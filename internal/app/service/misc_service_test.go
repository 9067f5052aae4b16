package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService(t *testing.T) {
	testDB := setupTestDB(t)
	productRepo := repository.NewProductRepository(testDB)
	svc := NewReviewService(repository.NewReviewRepository(testDB), productRepo)
	category := seedCategory(t, testDB, "stickers")
	product := seedProduct(t, testDB, category.ID, "sticker", 5500)
	user := seedUser(t, testDB, "critic")

	review, err := svc.CreateReview(product.ID, user.ID, ReviewInput{Rating: 5, Comment: "  최고예요  "})
	require.NoError(t, err)
	assert.Equal(t, "최고예요", review.Comment)

	_, err = svc.CreateReview(product.ID, user.ID, ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.CreateReview(product.ID, user.ID, ReviewInput{Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.CreateReview(999, user.ID, ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, ErrProductNotFound)

	page, err := svc.ListReviews(product.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = svc.ListReviews(999, 1, 10)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCommunityService(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewCommunityService(repository.NewCommunityRepository(testDB))
	user := seedUser(t, testDB, "maker")

	post, err := svc.CreatePost(user.ID, PostInput{Title: " Keyring haul ", Description: "look"})
	require.NoError(t, err)
	assert.Equal(t, "Keyring haul", post.Title)
	assert.NotNil(t, post.ImageURLs)

	liked, likes, err := svc.ToggleLike(post.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	_, err = svc.CreateComment(post.ID, user.ID, CommentInput{Content: "nice"})
	require.NoError(t, err)
	comments, err := svc.ListComments(post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = svc.CreateComment(999, user.ID, CommentInput{Content: "nope"})
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = svc.ListComments(999)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, _, err = svc.ToggleLike(999, user.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	page, err := svc.ListPosts("haul", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

type stubSigner struct {
	err  error
	keys []string
}

func (s *stubSigner) PresignDownload(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://signed.example.com/" + key, nil
}

func TestTemplateService_Download(t *testing.T) {
	testDB := setupTestDB(t)
	repo := repository.NewTemplateRepository(testDB)
	signer := &stubSigner{}
	svc := NewTemplateService(repo, signer)

	tmpl, err := svc.CreateTemplate(TemplateInput{Title: "Sheet", TitleKo: "시트", Format: "psd", FileKey: "templates/sheet.psd", Status: "인기"})
	require.NoError(t, err)
	assert.Equal(t, "PSD", tmpl.Format)
	assert.Equal(t, model.TemplateStatusHot, tmpl.Status)

	link, err := svc.Download(context.Background(), tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/templates/sheet.psd", link.URL)
	assert.Equal(t, 1, link.Downloads)

	signer.err = errors.New("s3 down")
	_, err = svc.Download(context.Background(), tmpl.ID)
	assert.Error(t, err)
	found, err := svc.GetTemplate(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Downloads)

	_, err = svc.Download(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	unsigned := NewTemplateService(repo, nil)
	_, err = unsigned.Download(context.Background(), tmpl.ID)
	assert.ErrorIs(t, err, ErrTemplateUnavailable)

	_, err = svc.CreateTemplate(TemplateInput{Title: "x", TitleKo: "x", Format: "PNG", FileKey: "k", Status: "LEGENDARY"})
	assert.ErrorIs(t, err, ErrInvalidTemplateBadge)
	_, err = svc.ListTemplates("LEGENDARY")
	assert.ErrorIs(t, err, ErrInvalidTemplateBadge)

	hot, err := svc.ListTemplates("HOT")
	require.NoError(t, err)
	assert.Len(t, hot, 1)
}

func TestTemplateService_RefreshStatuses(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewTemplateService(repository.NewTemplateRepository(testDB), nil)

	tmpl, err := svc.CreateTemplate(TemplateInput{Title: "Fresh", TitleKo: "신상", Format: "PNG", FileKey: "k"})
	require.NoError(t, err)

	tagged, err := svc.RefreshStatuses(5, 14*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tagged)

	found, err := svc.GetTemplate(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateStatusNew, found.Status)
}

func TestDesignService(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewDesignService(repository.NewDesignRepository(testDB))

	_, err := svc.CreateDesign("client-1", nil, DesignInput{CanvasWidth: 10, CanvasHeight: 300})
	assert.ErrorIs(t, err, editor.ErrInvalidCanvas)

	design, err := svc.CreateDesign("client-1", nil, DesignInput{Name: "keyring", CanvasWidth: 400, CanvasHeight: 400})
	require.NoError(t, err)

	added, err := svc.AddImage("client-1", design.ID, ImageInput{Src: "beluga.png", NaturalWidth: 200, NaturalHeight: 100})
	require.NoError(t, err)
	assert.Equal(t, 200.0, added.Element.Width)
	assert.Equal(t, 150.0, added.Element.Y)

	_, err = svc.GetDesign("client-2", design.ID)
	assert.ErrorIs(t, err, ErrDesignNotFound)
	_, err = svc.AddImage("client-2", design.ID, ImageInput{Src: "x.png", NaturalWidth: 10, NaturalHeight: 10})
	assert.ErrorIs(t, err, ErrDesignNotFound)

	moved, err := svc.ApplyOperation("client-1", design.ID, added.Element.ID, editor.Operation{Op: editor.OpMove, X: 1000, Y: -50})
	require.NoError(t, err)
	assert.True(t, moved.Changed)
	assert.Equal(t, 200.0, moved.Element.X)
	assert.Equal(t, 0.0, moved.Element.Y)

	resized, err := svc.ApplyOperation("client-1", design.ID, added.Element.ID, editor.Operation{Op: editor.OpResize, Handle: editor.HandleSW, DX: -100})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, resized.Element.Width/resized.Element.Height, 1e-9)

	reloaded, err := svc.GetDesign("client-1", design.ID)
	require.NoError(t, err)
	el := reloaded.Document().Find(added.Element.ID)
	require.NotNil(t, el)
	assert.Equal(t, resized.Element, *el)

	_, err = svc.ApplyOperation("client-1", design.ID, "missing", editor.Operation{Op: editor.OpRotate})
	assert.ErrorIs(t, err, editor.ErrElementNotFound)
	_, err = svc.ApplyOperation("client-1", design.ID, added.Element.ID, editor.Operation{Op: "explode"})
	assert.ErrorIs(t, err, editor.ErrUnknownOp)

	deleted, err := svc.ApplyOperation("client-1", design.ID, added.Element.ID, editor.Operation{Op: editor.OpDelete})
	require.NoError(t, err)
	assert.True(t, deleted.Changed)
	assert.Empty(t, deleted.Design.Document().Elements)
}

func TestDesignService_Interaction(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewDesignService(repository.NewDesignRepository(testDB)).(*designService)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	design, err := svc.CreateDesign("client-1", nil, DesignInput{CanvasWidth: 400, CanvasHeight: 400})
	require.NoError(t, err)
	added, err := svc.AddImage("client-1", design.ID, ImageInput{Src: "beluga.png", NaturalWidth: 100, NaturalHeight: 100})
	require.NoError(t, err)
	elementID := added.Element.ID

	_, err = svc.Interact("client-1", design.ID, InteractionInput{Action: ActionBeginResize, ElementID: elementID, Handle: editor.HandleSE, X: 300, Y: 300})
	require.NoError(t, err)

	grown, err := svc.Interact("client-1", design.ID, InteractionInput{Action: ActionMove, X: 340, Y: 340})
	require.NoError(t, err)
	assert.True(t, grown.Changed)
	assert.Greater(t, grown.Element.Width, added.Element.Width)

	_, err = svc.AddImage("client-1", design.ID, ImageInput{Src: "x.png", NaturalWidth: 10, NaturalHeight: 10})
	assert.ErrorIs(t, err, editor.ErrInteractionActive)

	back, err := svc.Interact("client-1", design.ID, InteractionInput{Action: ActionMove, X: 300, Y: 300})
	require.NoError(t, err)
	assert.Equal(t, added.Element, back.Element)

	reloaded, err := svc.GetDesign("client-1", design.ID)
	require.NoError(t, err)
	assert.Equal(t, added.Element, *reloaded.Document().Find(elementID))

	// 응답 없는 클라이언트의 세션은 만료됨
	now = now.Add(interactionTimeout + time.Second)
	_, err = svc.Interact("client-1", design.ID, InteractionInput{Action: ActionMove, X: 1, Y: 1})
	assert.ErrorIs(t, err, editor.ErrNoInteraction)
	_, err = svc.Interact("client-1", design.ID, InteractionInput{Action: ActionBeginDrag, ElementID: "missing"})
	assert.ErrorIs(t, err, editor.ErrElementNotFound)
	_, err = svc.Interact("client-2", design.ID, InteractionInput{Action: ActionBeginDrag, ElementID: elementID})
	assert.ErrorIs(t, err, ErrDesignNotFound)
}

func TestDesignService_RejectsInvalidStoredDocument(t *testing.T) {
	testDB := setupTestDB(t)
	repo := repository.NewDesignRepository(testDB)
	svc := NewDesignService(repo)

	design := &model.Design{ClientID: "client-1", CanvasWidth: 400, CanvasHeight: 400}
	design.SetElements(&editor.Document{Elements: []editor.Element{
		{ID: "a", X: 390, Y: 0, Width: 100, Height: 100},
	}})
	require.NoError(t, repo.Create(design))

	_, err := svc.ApplyOperation("client-1", design.ID, "a", editor.Operation{Op: editor.OpRotate})
	assert.ErrorIs(t, err, editor.ErrInvalidDocument)
	_, err = svc.Interact("client-1", design.ID, InteractionInput{Action: ActionBeginDrag, ElementID: "a"})
	assert.ErrorIs(t, err, editor.ErrInvalidDocument)
}

func TestNegotiateLanguage(t *testing.T) {
	assert.Equal(t, "en", NegotiateLanguage("en-US,en;q=0.9"))
	assert.Equal(t, "ko", NegotiateLanguage("ko-KR,ko;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", NegotiateLanguage("fr-FR,en;q=0.5"))
	assert.Equal(t, "ko", NegotiateLanguage("ja"))
	assert.Equal(t, "ko", NegotiateLanguage(""))
}

func TestPreferenceService(t *testing.T) {
	svc := NewPreferenceService(newTestStore(t, nil))
	ctx := context.Background()

	prefs, err := svc.GetPreferences(ctx, "c", "en-GB")
	require.NoError(t, err)
	assert.Equal(t, clientstate.Preferences{Theme: "light", Language: "en"}, prefs)

	prefs, err = svc.UpdatePreferences(ctx, "c", clientstate.Preferences{Theme: "dark", Language: "ko"})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)

	// an explicit choice beats the header
	prefs, err = svc.GetPreferences(ctx, "c", "en-GB")
	require.NoError(t, err)
	assert.Equal(t, "ko", prefs.Language)

	_, err = svc.UpdatePreferences(ctx, "c", clientstate.Preferences{Theme: "neon"})
	assert.ErrorIs(t, err, clientstate.ErrInvalidTheme)

	for _, term := range []string{"mug", "sticker", "mug"} {
		_, err := svc.AddSearchTerm(ctx, "c", term)
		require.NoError(t, err)
	}
	history, err := svc.SearchHistory(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"mug", "sticker"}, history)

	history, err = svc.RemoveSearchTerm(ctx, "c", "mug")
	require.NoError(t, err)
	assert.Equal(t, []string{"sticker"}, history)

	require.NoError(t, svc.ClearSearchHistory(ctx, "c"))
	history, err = svc.SearchHistory(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAdminService(t *testing.T) {
	disabled := NewAdminService("")
	assert.False(t, disabled.Enabled())
	assert.ErrorIs(t, disabled.VerifyPassword(""), ErrAdminDisabled)

	svc := NewAdminService("s3cret")
	assert.True(t, svc.Enabled())
	assert.NoError(t, svc.VerifyPassword("s3cret"))
	assert.ErrorIs(t, svc.VerifyPassword("guess"), ErrInvalidAdminPassword)
}

func TestInquiryService(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewInquiryService(repository.NewInquiryRepository(testDB))

	inquiry, err := svc.Submit(InquiryInput{Name: " 홍길동 ", Email: "hong@example.com", Subject: "대량 주문", Message: "100개 가능할까요?"})
	require.NoError(t, err)
	assert.NotZero(t, inquiry.ID)
	assert.Equal(t, "홍길동", inquiry.Name)
	assert.Equal(t, model.InquiryStatusOpen, inquiry.Status)
}
