package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误与非错误的边界（重要）：
//   - 结构性问题（缺列、快照版本不兼容）是错误，立即向调用方抛出
//   - 数据质量问题（越界评分行）不是错误，丢弃并统计，见 dataset.LoadReport
//   - 冷启动用户、空候选集不是错误，是有定义的降级路径
type DomainError struct {
	Code    string // 错误代码（如 "SCHEMA_ERROR", "MODEL_VERSION"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "model", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeSchema        = "SCHEMA_ERROR"   // 输入表缺少必需列，加载中止
	ErrorCodeModelVersion  = "MODEL_VERSION"  // 持久化快照版本不兼容
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleDataset = "dataset" // 评分/元数据加载模块
	ModuleModel   = "model"   // 训练与快照模块
	ModuleStore   = "store"   // 存储模块
	ModuleRecall  = "recall"  // 召回/打分模块
	ModuleServing = "serving" // 在线服务模块
)

// IsSchemaError 检查错误是否为输入表结构错误
func IsSchemaError(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSchema
	}
	return false
}

// IsModelVersionError 检查错误是否为快照版本不兼容
func IsModelVersionError(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeModelVersion
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}
