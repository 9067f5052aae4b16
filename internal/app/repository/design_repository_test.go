package repository

import (
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/belugagoods/storefront-backend/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignRepository_RoundTripsElements(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewDesignRepository(testDB)
	design := &model.Design{ClientID: "client-1", Name: "keyring", CanvasWidth: 400, CanvasHeight: 300}

	doc := design.Document()
	_, err = doc.AddImage("el-1", "https://example.com/beluga.png", 800, 400)
	require.NoError(t, err)
	design.SetElements(doc)
	require.NoError(t, repo.Create(design))

	found, err := repo.FindByID(design.ID)
	require.NoError(t, err)
	elements := found.Document().Elements
	require.Len(t, elements, 1)
	assert.Equal(t, 400.0, elements[0].Width)
	assert.True(t, elements[0].AspectLock)

	_, ok, err := found.Document().Apply(elements[0].ID, editor.Operation{Op: editor.OpRotate})
	require.NoError(t, err)
	assert.True(t, ok)
}
