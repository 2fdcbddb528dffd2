package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "dtm_users", CollectionName("dtm", UsersCollection))
	assert.Equal(t, "emails", CollectionName("", EmailsCollection))
}
