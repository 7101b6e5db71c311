package handlers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentverse/talentverse-backend/internal/models"
)

func TestListSkills_PublicAndFiltered(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.Skill{Name: "Guitar", Category: "Music", IsActive: true}).Error)
	require.NoError(t, env.db.Create(&models.Skill{Name: "Spanish", Category: "Languages", IsActive: true}).Error)
	require.NoError(t, env.db.Create(&models.Skill{Name: "Retired", Category: "Music", IsActive: false}).Error)

	w := env.request(t, "GET", "/api/skills", "", nil)
	require.Equal(t, 200, w.Code)
	var skills []models.Skill
	decodeData(t, decodeEnvelope(t, w), &skills)
	assert.Len(t, skills, 2, "inactive skills are hidden")

	w = env.request(t, "GET", "/api/skills?category=Music", "", nil)
	require.Equal(t, 200, w.Code)
	decodeData(t, decodeEnvelope(t, w), &skills)
	require.Len(t, skills, 1)
	assert.Equal(t, "Guitar", skills[0].Name)
}

func TestCreateSkill_RejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	token := env.tokenFor(t, user)

	w := env.request(t, "POST", "/api/skills", token, map[string]string{
		"name":     "Photography",
		"category": "Arts",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	w = env.request(t, "POST", "/api/skills", token, map[string]string{
		"name": "Photography",
	})
	assert.Equal(t, 400, w.Code)
}

func TestAddUserSkill(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	token := env.tokenFor(t, user)

	skill := models.Skill{Name: "Guitar", Category: "Music", IsActive: true}
	require.NoError(t, env.db.Create(&skill).Error)

	w := env.request(t, "POST", "/api/users/me/skills", token, map[string]interface{}{
		"skillId":     skill.ID,
		"type":        "offered",
		"description": "10 years of playing",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var us models.UserSkill
	decodeData(t, decodeEnvelope(t, w), &us)
	assert.Equal(t, models.SkillTypeOffered, us.Type)
	assert.Equal(t, "Guitar", us.Skill.Name)

	// Type outside offered/wanted is rejected by validation
	w = env.request(t, "POST", "/api/users/me/skills", token, map[string]interface{}{
		"skillId": skill.ID,
		"type":    "expert",
	})
	assert.Equal(t, 400, w.Code)

	// Unknown skill
	w = env.request(t, "POST", "/api/users/me/skills", token, map[string]interface{}{
		"skillId": 9999,
		"type":    "wanted",
	})
	assert.Equal(t, 404, w.Code)
}

func TestListMySkills(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	bob := env.createUser(t, "bob", "b@x.com", "Secret1!", false)

	skill := models.Skill{Name: "Guitar", IsActive: true}
	require.NoError(t, env.db.Create(&skill).Error)
	require.NoError(t, env.db.Create(&models.UserSkill{UserID: alice.ID, SkillID: skill.ID, Type: models.SkillTypeOffered}).Error)

	w := env.request(t, "GET", "/api/users/me/skills", env.tokenFor(t, alice), nil)
	require.Equal(t, 200, w.Code)
	var mine []models.UserSkill
	decodeData(t, decodeEnvelope(t, w), &mine)
	assert.Len(t, mine, 1)

	w = env.request(t, "GET", "/api/users/me/skills", env.tokenFor(t, bob), nil)
	require.Equal(t, 200, w.Code)
	decodeData(t, decodeEnvelope(t, w), &mine)
	assert.Empty(t, mine)
}

func TestRemoveUserSkill_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	bob := env.createUser(t, "bob", "b@x.com", "Secret1!", false)

	skill := models.Skill{Name: "Guitar", IsActive: true}
	require.NoError(t, env.db.Create(&skill).Error)
	us := models.UserSkill{UserID: alice.ID, SkillID: skill.ID, Type: models.SkillTypeOffered}
	require.NoError(t, env.db.Create(&us).Error)

	path := fmt.Sprintf("/api/users/me/skills/%d", us.ID)

	w := env.request(t, "DELETE", path, env.tokenFor(t, bob), nil)
	assert.Equal(t, 403, w.Code)

	w = env.request(t, "DELETE", path, env.tokenFor(t, alice), nil)
	require.Equal(t, 200, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.UserSkill{}).Where("id = ?", us.ID).Count(&count).Error)
	assert.Zero(t, count)
}
