package constants

// 购物车动作常量
const (
	CartActionAdd    = "add"
	CartActionReduce = "reduce"
	CartActionDelete = "delete"
	CartActionClear  = "clear"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskCartActivity = "cart:activity"
)

// 身份解析模式常量
const (
	IdentityModeRemote = "remote"
	IdentityModeLocal  = "local"
)
