package notification

import (
	"context"
	"testing"

	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	userrepo "github.com/axel-paillaud/ticketsync/internal/user/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolveRecipients(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}))
	t.Cleanup(func() { db.Exec("DELETE FROM users") })

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	orgID := node.Generate()
	otherOrgID := node.Generate()

	// An admin inside the org appears once despite matching both the
	// admin and the member query.
	adminInOrg := userdomain.User{ID: node.Generate(), Email: "admin-in@x.io", Role: userdomain.RoleAdmin, OrgID: orgID}
	adminOutside := userdomain.User{ID: node.Generate(), Email: "admin-out@x.io", Role: userdomain.RoleAdmin, OrgID: otherOrgID}
	member := userdomain.User{ID: node.Generate(), Email: "member@x.io", Role: userdomain.RoleUser, OrgID: orgID}
	actor := userdomain.User{ID: node.Generate(), Email: "actor@x.io", Role: userdomain.RoleUser, OrgID: orgID}
	stranger := userdomain.User{ID: node.Generate(), Email: "stranger@x.io", Role: userdomain.RoleUser, OrgID: otherOrgID}

	for _, u := range []userdomain.User{adminInOrg, adminOutside, member, actor, stranger} {
		require.NoError(t, db.Create(&u).Error)
	}

	resolver := NewRecipientResolver(userrepo.NewRepository(db))
	recipients, err := resolver.Resolve(context.Background(), orgID, actor.ID)
	require.NoError(t, err)

	ids := make(map[snowflake.ID]bool, len(recipients))
	for _, r := range recipients {
		ids[r.ID] = true
	}

	assert.Len(t, recipients, 3)
	assert.True(t, ids[adminInOrg.ID])
	assert.True(t, ids[adminOutside.ID])
	assert.True(t, ids[member.ID])
	assert.False(t, ids[actor.ID])
	assert.False(t, ids[stranger.ID])
}
