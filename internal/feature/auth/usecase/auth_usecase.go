package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"jobtrack_backend/internal/feature/auth/domain/entity"
	"jobtrack_backend/internal/shared/validation"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6
	// maxPasswordBytes は bcrypt が受け付ける最大バイト数です。
	maxPasswordBytes = 72

	// dummyHash はユーザーが存在しない場合にも bcrypt 比較を行うためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// RegisterInput は新規登録の入力です。
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult は登録・ログイン成功時に返すユーザーとトークンの組です。
type AuthResult struct {
	User  *entity.User
	Token string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
	}
}

// normalizeEmail はメールアドレスの比較を大文字小文字を区別しないようにします。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegister は最初に見つかった入力エラーを返します。
func validateRegister(in RegisterInput) error {
	if err := validation.Required("name", in.Name); err != nil {
		return err
	}
	if err := validation.Required("email", in.Email); err != nil {
		return err
	}
	if !validation.Email(in.Email) {
		return validation.New("email", "email is invalid")
	}
	if in.Password == "" {
		return validation.New("password", "password is required")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return validation.New("password", "password must be at least %d characters long", minPasswordLength)
	}
	// bcrypt は 72 バイトを超える入力を拒否する
	if len(in.Password) > maxPasswordBytes {
		return validation.New("password", "password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、トークンを発行します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Name: in.Name, Email: in.Email, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.issue(user)
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、同じエラーを返す
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

// Me はIDでユーザーを取得します。アクセスガードがトークンの利用者を解決する際に使用します。
func (u *authUsecase) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

func (u *authUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
