package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 生活记录簿（생활기록부）草稿并发编辑时返回给调用方
var ErrOptimisticLock = errors.New("이미 다른 작업에서 수정된 데이터입니다. 새로고침 후 다시 시도해 주세요.")
