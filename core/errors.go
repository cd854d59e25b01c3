package core

import "fmt"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 配置类错误（重复注册、未知 feed、缺少 source）同步返回，属于调用方缺陷
//   - 协作方失败（hook、解析器、审核服务）在调用点捕获并降级，不会以此类型冒泡
type DomainError struct {
	Code    string // 错误代码（如 "DUPLICATE_FEED"）
	Message string
	Module  string // 模块名称（如 "engine", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeDuplicateFeed = "DUPLICATE_FEED" // feed 名称已被注册
	ErrorCodeUnknownFeed   = "UNKNOWN_FEED"   // feed 未注册
	ErrorCodeMissingSource = "MISSING_SOURCE" // 注册时缺少 source
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
)

// 模块名称常量
const (
	ModuleEngine = "engine"
	ModuleStage  = "stage"
	ModuleStore  = "store"
	ModuleConfig = "config"
)

// NewDuplicateFeedError 表示重复注册同名 feed。重复注册是错误而非幂等 no-op。
func NewDuplicateFeedError(name string) *DomainError {
	return NewDomainError(ModuleEngine, ErrorCodeDuplicateFeed,
		fmt.Sprintf("feed %q is already registered", name))
}

// NewUnknownFeedError 表示运行了未注册的 feed。
func NewUnknownFeedError(name string) *DomainError {
	return NewDomainError(ModuleEngine, ErrorCodeUnknownFeed,
		fmt.Sprintf("feed %q is not registered", name))
}

// IsDuplicateFeed 检查错误是否为 DUPLICATE_FEED。
func IsDuplicateFeed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeDuplicateFeed
	}
	return false
}

// IsUnknownFeed 检查错误是否为 UNKNOWN_FEED。
func IsUnknownFeed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnknownFeed
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
