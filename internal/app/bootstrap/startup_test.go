package bootstrap

import (
	"testing"

	userstore "github.com/rhinogeeks/coursedesk/internal/app/store/users"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"github.com/rhinogeeks/coursedesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSuperAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{
		SuperAdminEmail:    "superadmin@test.com",
		SuperAdminName:     "Super Admin",
		SuperAdminPassword: "bootstrap-secret",
	}

	if err := ensureSuperAdmin(ctx, deps, appCfg, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": "superadmin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != "superadmin" {
		t.Errorf("expected role 'superadmin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected status 'active', got %q", user.Status)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("bootstrap-secret")); err != nil {
		t.Error("stored password hash does not match bootstrap password")
	}
}

func TestEnsureSuperAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	existing := fixtures.CreateAdmin(ctx, "Existing Admin", "existing@test.com", "original-password")

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{
		SuperAdminEmail: "existing@test.com",
		SuperAdminName:  "Ignored On Promotion",
	}

	if err := ensureSuperAdmin(ctx, deps, appCfg, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != "superadmin" {
		t.Errorf("expected role 'superadmin', got %q", user.Role)
	}
	// Promotion must leave credentials and identity alone.
	if user.FullName != "Existing Admin" {
		t.Errorf("expected name unchanged, got %q", user.FullName)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("original-password")); err != nil {
		t.Error("expected existing password hash to be untouched")
	}
}

func TestEnsureSuperAdmin_AlreadySuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash seed password: %v", err)
	}
	store := userstore.New(db)
	if err := store.PromoteSuperAdmin(ctx, "superadmin@test.com", "Super Admin", string(hash)); err != nil {
		t.Fatalf("failed to seed superadmin: %v", err)
	}

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{SuperAdminEmail: "superadmin@test.com", SuperAdminName: "Super Admin"}

	if err := ensureSuperAdmin(ctx, deps, appCfg, testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "superadmin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != "superadmin" {
		t.Errorf("expected role 'superadmin', got %q", user.Role)
	}
}

func TestEnsureSuperAdmin_CreateWithoutPasswordFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{SuperAdminEmail: "nobody@test.com", SuperAdminName: "Nobody"}

	if err := ensureSuperAdmin(ctx, deps, appCfg, testLogger()); err == nil {
		t.Fatal("expected error when creating a superadmin without a password")
	}
}
