package donors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/donorbase/models"
)

func TestApplyProfileCreatesDonorBlock(t *testing.T) {
	c := models.Contact{ID: "a", FirstName: "Jane", LastName: "Doe"}

	err := ApplyProfile(&c, ProfileUpdate{
		DonorType:        models.DonorCorporate,
		PreferredContact: " email ",
		Interests:        []string{"arts", "Arts", " ", "youth"},
	})
	require.NoError(t, err)

	require.NotNil(t, c.DonorInfo)
	assert.Equal(t, "a", c.DonorInfo.DonorID)
	assert.Equal(t, models.DonorCorporate, c.DonorInfo.DonorType)
	assert.Equal(t, "email", c.DonorInfo.PreferredContact)
	assert.Equal(t, []string{"arts", "youth"}, c.DonorInfo.Interests)
	assert.Equal(t, models.LevelProspect, c.DonorInfo.GivingLevel)
}

func TestApplyProfileKeepsUnsetFields(t *testing.T) {
	c := models.Contact{DonorInfo: &models.DonorInfo{
		DonorType:        models.DonorFoundation,
		PreferredContact: "phone",
		Interests:        []string{"arts"},
	}}

	require.NoError(t, ApplyProfile(&c, ProfileUpdate{Interests: []string{"health"}}))

	assert.Equal(t, models.DonorFoundation, c.DonorInfo.DonorType)
	assert.Equal(t, "phone", c.DonorInfo.PreferredContact)
	assert.Equal(t, []string{"arts", "health"}, c.DonorInfo.Interests)
}

func TestApplyProfileEmptyLeavesContactAlone(t *testing.T) {
	c := models.Contact{FirstName: "Jane"}
	require.NoError(t, ApplyProfile(&c, ProfileUpdate{}))
	assert.Nil(t, c.DonorInfo)
}

func TestApplyProfileRejectsUnknownDonorType(t *testing.T) {
	c := models.Contact{FirstName: "Jane"}

	err := ApplyProfile(&c, ProfileUpdate{DonorType: "alien"})

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "donorType", verr.Field)
	assert.Nil(t, c.DonorInfo)
}
