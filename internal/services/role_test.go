package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sedesupport/internal/domain"
)

func TestRoleService_Create(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo, time.Second)

	t.Run("trims name", func(t *testing.T) {
		r := &domain.Role{Name: "  Coordinador  "}
		require.NoError(t, svc.Create(context.Background(), r))
		assert.Equal(t, "Coordinador", r.Name)
		assert.NotEmpty(t, r.ID)
	})

	t.Run("requires name", func(t *testing.T) {
		err := svc.Create(context.Background(), &domain.Role{Name: "   "})
		require.Error(t, err)
	})

	t.Run("unknown parent", func(t *testing.T) {
		err := svc.Create(context.Background(), &domain.Role{Name: "Auxiliar", ParentID: strPtr("missing")})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRoleService_Update(t *testing.T) {
	// a -> b -> c, d unrelated.
	repo := newFakeRoleRepo()
	repo.add(&domain.Role{ID: "a", Name: "Director"})
	repo.add(&domain.Role{ID: "b", Name: "Coordinador", ParentID: strPtr("a")})
	repo.add(&domain.Role{ID: "c", Name: "Técnico", ParentID: strPtr("b")})
	repo.add(&domain.Role{ID: "d", Name: "Auxiliar"})
	svc := NewRoleService(repo, time.Second)

	t.Run("rejects self as parent", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "a", domain.RoleUpdate{SetParent: true, ParentID: strPtr("a")})
		assert.True(t, errors.Is(err, domain.ErrRoleCycle))
	})

	t.Run("rejects descendant as parent", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "a", domain.RoleUpdate{SetParent: true, ParentID: strPtr("c")})
		assert.True(t, errors.Is(err, domain.ErrRoleCycle))
	})

	t.Run("allows unrelated parent", func(t *testing.T) {
		got, err := svc.Update(context.Background(), "d", domain.RoleUpdate{SetParent: true, ParentID: strPtr("b")})
		require.NoError(t, err)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, "b", *got.ParentID)
	})

	t.Run("moves to root", func(t *testing.T) {
		got, err := svc.Update(context.Background(), "c", domain.RoleUpdate{SetParent: true})
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
	})

	t.Run("rename leaves parent alone", func(t *testing.T) {
		got, err := svc.Update(context.Background(), "b", domain.RoleUpdate{Name: strPtr("Coordinación")})
		require.NoError(t, err)
		assert.Equal(t, "Coordinación", got.Name)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, "a", *got.ParentID)
	})
}

func TestRoleService_Delete(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.add(&domain.Role{ID: "a", Name: "Director"})
	repo.add(&domain.Role{ID: "b", Name: "Coordinador", ParentID: strPtr("a")})
	svc := NewRoleService(repo, time.Second)

	t.Run("role with children", func(t *testing.T) {
		err := svc.Delete(context.Background(), "a")
		assert.True(t, errors.Is(err, domain.ErrRoleHasChildren))
	})

	t.Run("leaf role", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), "b"))
		require.NoError(t, svc.Delete(context.Background(), "a"))
	})

	t.Run("unknown role", func(t *testing.T) {
		err := svc.Delete(context.Background(), "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRoleService_Tree(t *testing.T) {
	t.Run("nests children under parents", func(t *testing.T) {
		repo := newFakeRoleRepo()
		repo.add(&domain.Role{ID: "a", Name: "Director"})
		repo.add(&domain.Role{ID: "b", Name: "Coordinador", ParentID: strPtr("a")})
		repo.add(&domain.Role{ID: "c", Name: "Técnico", ParentID: strPtr("b")})
		svc := NewRoleService(repo, time.Second)

		tree, err := svc.Tree(context.Background())
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, "a", tree[0].Role.ID)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "b", tree[0].Children[0].Role.ID)
		require.Len(t, tree[0].Children[0].Children, 1)
		assert.Equal(t, "c", tree[0].Children[0].Children[0].Role.ID)
	})

	t.Run("missing parent attaches at root", func(t *testing.T) {
		repo := newFakeRoleRepo()
		repo.add(&domain.Role{ID: "a", Name: "Director"})
		repo.add(&domain.Role{ID: "orphan", Name: "Huérfano", ParentID: strPtr("gone")})
		svc := NewRoleService(repo, time.Second)

		tree, err := svc.Tree(context.Background())
		require.NoError(t, err)
		require.Len(t, tree, 2)

		ids := []string{tree[0].Role.ID, tree[1].Role.ID}
		assert.Contains(t, ids, "a")
		assert.Contains(t, ids, "orphan")
	})

	t.Run("cyclic parents attach at root once each", func(t *testing.T) {
		repo := newFakeRoleRepo()
		repo.add(&domain.Role{ID: "x", Name: "X", ParentID: strPtr("y")})
		repo.add(&domain.Role{ID: "y", Name: "Y", ParentID: strPtr("x")})
		svc := NewRoleService(repo, time.Second)

		tree, err := svc.Tree(context.Background())
		require.NoError(t, err)
		require.Len(t, tree, 2)
	})
}

func TestRoleService_AssignableParents(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.add(&domain.Role{ID: "a", Name: "Director"})
	repo.add(&domain.Role{ID: "b", Name: "Coordinador", ParentID: strPtr("a")})
	repo.add(&domain.Role{ID: "c", Name: "Técnico", ParentID: strPtr("b")})
	repo.add(&domain.Role{ID: "d", Name: "Auxiliar"})
	svc := NewRoleService(repo, time.Second)

	got, err := svc.AssignableParents(context.Background(), "a")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	// Everything except the role itself and its descendants.
	assert.Equal(t, []string{"d"}, ids)
}
