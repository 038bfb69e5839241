package user

import (
	"testing"

	"github.com/SlpAus/lost-and-found-backend/pkg/apperror"
	"github.com/SlpAus/lost-and-found-backend/pkg/shortid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestRegister_Validation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name     string
		username string
		fullName string
		password string
	}{
		{"username too short", "ab", "Alice A", "pass1234"},
		{"empty full name", "alice", "   ", "pass1234"},
		{"password too short", "alice", "Alice A", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Register(db, tt.username, tt.fullName, tt.password)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}

	// 校验失败不应留下任何记录
	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRegister_Success(t *testing.T) {
	db := newTestDB(t)

	u, err := Register(db, "alice", "Alice A", "pass1234")
	require.NoError(t, err)

	assert.Len(t, u.UID, shortid.Length)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice A", u.FullName)
	assert.NotEqual(t, "pass1234", u.PasswordHash, "不允许存储明文密码")
	assert.True(t, u.CheckPassword("pass1234"))
	assert.False(t, u.CheckPassword("pass12345"))
}

func TestRegister_UsernameConflict(t *testing.T) {
	db := newTestDB(t)

	_, err := Register(db, "alice", "Alice A", "pass1234")
	require.NoError(t, err)

	_, err = Register(db, "alice", "Another Alice", "pass5678")
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	registered, err := Register(db, "alice", "Alice A", "pass1234")
	require.NoError(t, err)

	authed, err := Authenticate(db, "alice", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, registered.UID, authed.UID)
	assert.Equal(t, registered.ID, authed.ID)
}

func TestAuthenticate_FailureIsConflated(t *testing.T) {
	db := newTestDB(t)

	_, err := Register(db, "alice", "Alice A", "pass1234")
	require.NoError(t, err)

	_, wrongPassword := Authenticate(db, "alice", "wrong")
	require.Error(t, wrongPassword)

	_, noSuchUser := Authenticate(db, "nobody", "pass1234")
	require.Error(t, noSuchUser)

	// 两种失败必须对外不可区分
	assert.Equal(t, wrongPassword.Error(), noSuchUser.Error())
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, noSuchUser, ErrInvalidCredentials)
}

func TestGetByUID(t *testing.T) {
	db := newTestDB(t)

	u, err := Register(db, "alice", "Alice A", "pass1234")
	require.NoError(t, err)

	got, err := GetByUID(db, u.UID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)

	_, err = GetByUID(db, "missing1")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEnsureAdminUser(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnsureAdminUser(db, "admin123"))
	require.NoError(t, EnsureAdminUser(db, "admin123"), "重复执行必须幂等")

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	admin, err := Authenticate(db, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
}

func TestEnsureAdminUser_SkipsWhenUsersExist(t *testing.T) {
	db := newTestDB(t)

	_, err := Register(db, "alice", "Alice A", "pass1234")
	require.NoError(t, err)

	require.NoError(t, EnsureAdminUser(db, "admin123"))

	_, err = Authenticate(db, "admin", "admin123")
	assert.Error(t, err, "已有用户时不应再种子admin")
}
