package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。無ければErrNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// username/emailどちらかが使用済みか
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// 最終ログイン時刻などの更新
	Update(ctx context.Context, user *model.User) error
}
