package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/wyfcoding/employeedocs/pkg/db"
	"gorm.io/gorm"
)

// base 各仓储共用的连接获取，context 中存在事务时使用事务
type base struct {
	db *gorm.DB
}

func (b base) getDB(ctx context.Context) *gorm.DB {
	return db.Conn(ctx, b.db)
}

// likeEscape 与 likePattern 配套的 LIKE 子句，MySQL、PostgreSQL 与 SQLite 都接受 '!' 作为转义符
const likeEscape = " LIKE ? ESCAPE '!'"

// likePattern 构造大小写不敏感的子串匹配模式
func likePattern(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
