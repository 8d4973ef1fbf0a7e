package rag

// IdentifierResolver 修正历史遗留的错误文档ID
// 只查固定映射表，表中没有的ID原样返回，绝不猜测
type IdentifierResolver struct {
	corrections map[string]string
}

// DefaultCorrections 已知的错误ID到规范ID的映射
// 上游历史ID生成缺陷产生的数据，修复范围仅限于此
func DefaultCorrections() map[string]string {
	return map[string]string{
		"31c3fea0-1baf-43a1-823e-6070e6ef6088": "31c3fab0-1baf-41a1-837d-687bf6bfdd88",
	}
}

// NewIdentifierResolver 创建ID修正器，映射表由外部提供
func NewIdentifierResolver(corrections map[string]string) *IdentifierResolver {
	if corrections == nil {
		corrections = map[string]string{}
	}
	return &IdentifierResolver{corrections: corrections}
}

// Resolve 查表修正文档ID
// 返回规范ID，corrected指示是否发生了替换
func (r *IdentifierResolver) Resolve(id string) (string, bool) {
	if canonical, ok := r.corrections[id]; ok {
		return canonical, true
	}
	return id, false
}
