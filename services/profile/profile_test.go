package profile

import (
	"fmt"
	"testing"

	"localserve/apperr"
	"localserve/database"
	serviceModel "localserve/models/service"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewService(db)
}

func seedUser(t *testing.T, svc *Service, email string, role userModel.Role) userModel.User {
	t.Helper()
	account := userModel.User{Name: "Someone", Email: email, PasswordHash: "x", Role: role, IsVerified: true}
	require.NoError(t, svc.DB.Create(&account).Error)
	return account
}

func TestCreateAddress_LimitOfFour(t *testing.T) {
	svc := newTestService(t)
	account := seedUser(t, svc, "c@x.com", userModel.RoleCustomer)

	for i := 0; i < MaxAddresses; i++ {
		_, err := svc.CreateAddress(account.ID, AddressInput{
			Label: fmt.Sprintf("home-%d", i), Line1: "12 Gandhi Road", City: "Pune",
		})
		require.NoError(t, err)
	}

	_, err := svc.CreateAddress(account.ID, AddressInput{Line1: "one too many"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "LIMIT_REACHED"))

	// The cap is per user.
	other := seedUser(t, svc, "d@x.com", userModel.RoleCustomer)
	_, err = svc.CreateAddress(other.ID, AddressInput{Line1: "5 MG Road"})
	assert.NoError(t, err)
}

func TestCreateAddress_SingleDefault(t *testing.T) {
	svc := newTestService(t)
	account := seedUser(t, svc, "c@x.com", userModel.RoleCustomer)

	first, err := svc.CreateAddress(account.ID, AddressInput{Label: "home", Line1: "12 Gandhi Road", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateAddress(account.ID, AddressInput{Label: "office", Line1: "5 MG Road", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	rows, err := svc.ListAddresses(account.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Exactly one default, and the list puts it first.
	assert.Equal(t, second.ID, rows[0].ID)
	assert.True(t, rows[0].IsDefault)
	assert.False(t, rows[1].IsDefault)
}

func TestUpdateAddress_OwnerScoped(t *testing.T) {
	svc := newTestService(t)
	owner := seedUser(t, svc, "c@x.com", userModel.RoleCustomer)
	stranger := seedUser(t, svc, "d@x.com", userModel.RoleCustomer)

	created, err := svc.CreateAddress(owner.ID, AddressInput{Label: "home", Line1: "12 Gandhi Road"})
	require.NoError(t, err)

	label := "work"
	_, err = svc.UpdateAddress(stranger.ID, created.ID, AddressUpdate{Label: &label})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "NOT_FOUND"))

	updated, err := svc.UpdateAddress(owner.ID, created.ID, AddressUpdate{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "work", updated.Label)
	assert.Equal(t, "12 Gandhi Road", updated.Line1, "untouched fields survive a partial update")
}

func TestUpdateAddress_PromoteToDefaultDemotesOthers(t *testing.T) {
	svc := newTestService(t)
	account := seedUser(t, svc, "c@x.com", userModel.RoleCustomer)

	first, err := svc.CreateAddress(account.ID, AddressInput{Label: "home", Line1: "12 Gandhi Road", IsDefault: true})
	require.NoError(t, err)
	second, err := svc.CreateAddress(account.ID, AddressInput{Label: "office", Line1: "5 MG Road"})
	require.NoError(t, err)

	makeDefault := true
	updated, err := svc.UpdateAddress(account.ID, second.ID, AddressUpdate{IsDefault: &makeDefault})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	reloaded, err := svc.UpdateAddress(account.ID, first.ID, AddressUpdate{})
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestDeleteAddress_OwnerScoped(t *testing.T) {
	svc := newTestService(t)
	owner := seedUser(t, svc, "c@x.com", userModel.RoleCustomer)
	stranger := seedUser(t, svc, "d@x.com", userModel.RoleCustomer)

	created, err := svc.CreateAddress(owner.ID, AddressInput{Line1: "12 Gandhi Road"})
	require.NoError(t, err)

	err = svc.DeleteAddress(stranger.ID, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "NOT_FOUND"))

	require.NoError(t, svc.DeleteAddress(owner.ID, created.ID))

	rows, err := svc.ListAddresses(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAddVendorService_FromCatalogEntry(t *testing.T) {
	svc := newTestService(t)
	vendor := seedUser(t, svc, "v@x.com", userModel.RoleVendor)

	catalog := serviceModel.Service{Name: "Plumbing"}
	require.NoError(t, svc.DB.Create(&catalog).Error)

	offering, err := svc.AddVendorService(vendor.ID, VendorServiceInput{
		ServiceID: catalog.ID,
		BasePrice: 250,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.ID, offering.ServiceID)
	assert.Equal(t, 250.0, offering.BasePrice)
	assert.Equal(t, 60, offering.DurationMinutes)
	assert.True(t, offering.IsActive)

	// First use provisioned the vendor profile.
	var profile vendorModel.VendorProfile
	require.NoError(t, svc.DB.Where("user_id = ?", vendor.ID).First(&profile).Error)
	assert.Equal(t, profile.ID, offering.VendorID)
}

func TestAddVendorService_CustomNameOpensCatalogEntry(t *testing.T) {
	svc := newTestService(t)
	vendor := seedUser(t, svc, "v@x.com", userModel.RoleVendor)

	offering, err := svc.AddVendorService(vendor.ID, VendorServiceInput{
		Name:            "Gutter Cleaning",
		BasePrice:       180,
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, offering.DurationMinutes)

	var catalog serviceModel.Service
	require.NoError(t, svc.DB.First(&catalog, offering.ServiceID).Error)
	assert.Equal(t, "Gutter Cleaning", catalog.Name)
	assert.Equal(t, "Gutter Cleaning", catalog.Description)
}

func TestAddVendorService_InputValidation(t *testing.T) {
	svc := newTestService(t)
	vendor := seedUser(t, svc, "v@x.com", userModel.RoleVendor)

	_, err := svc.AddVendorService(vendor.ID, VendorServiceInput{BasePrice: 100})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "VALIDATION_ERROR"), "needs service_id or a name")

	_, err = svc.AddVendorService(vendor.ID, VendorServiceInput{Name: "Plumbing", BasePrice: 0})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "VALIDATION_ERROR"))

	_, err = svc.AddVendorService(vendor.ID, VendorServiceInput{ServiceID: 999, BasePrice: 100})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "NOT_FOUND"))
}

func TestListVendorServices_OwnOfferingsOnly(t *testing.T) {
	svc := newTestService(t)
	vendor := seedUser(t, svc, "v@x.com", userModel.RoleVendor)
	rival := seedUser(t, svc, "w@x.com", userModel.RoleVendor)

	_, err := svc.AddVendorService(vendor.ID, VendorServiceInput{Name: "Plumbing", BasePrice: 250})
	require.NoError(t, err)
	_, err = svc.AddVendorService(rival.ID, VendorServiceInput{Name: "Painting", BasePrice: 400})
	require.NoError(t, err)

	rows, err := svc.ListVendorServices(vendor.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 250.0, rows[0].BasePrice)
}

func TestUpdateVendorService_OwnerScopedPartialChange(t *testing.T) {
	svc := newTestService(t)
	vendor := seedUser(t, svc, "v@x.com", userModel.RoleVendor)
	rival := seedUser(t, svc, "w@x.com", userModel.RoleVendor)

	offering, err := svc.AddVendorService(vendor.ID, VendorServiceInput{Name: "Plumbing", BasePrice: 250})
	require.NoError(t, err)
	_, err = svc.AddVendorService(rival.ID, VendorServiceInput{Name: "Painting", BasePrice: 400})
	require.NoError(t, err)

	price := 300.0
	inactive := false
	_, err = svc.UpdateVendorService(rival.ID, offering.ID, VendorServiceUpdate{BasePrice: &price})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "NOT_FOUND"))

	updated, err := svc.UpdateVendorService(vendor.ID, offering.ID, VendorServiceUpdate{
		BasePrice: &price,
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.BasePrice)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 60, updated.DurationMinutes, "untouched fields survive")
}

func TestUpdateVendorService_RequiresExistingProfile(t *testing.T) {
	svc := newTestService(t)
	vendor := seedUser(t, svc, "v@x.com", userModel.RoleVendor)

	price := 300.0
	_, err := svc.UpdateVendorService(vendor.ID, 1, VendorServiceUpdate{BasePrice: &price})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "NOT_FOUND"))
}
