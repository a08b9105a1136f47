package usecase

import "net/http"

// Error 是带 HTTP 状态的业务错误，handler 层据此生成响应。
type Error struct {
	Status  int    // 对应的 HTTP 状态码
	Message string // 客户端可见的固定消息
}

func (e *Error) Error() string {
	return e.Message
}

// 业务错误的哨兵值。usecase 在第一个被违反的不变式处立即返回，
// 从不吞掉这些错误。
var (
	ErrQuestionNotFound = &Error{Status: http.StatusNotFound, Message: "question not found"}
	ErrAnswerNotFound   = &Error{Status: http.StatusNotFound, Message: "answer not found"}
	ErrTaskNotFound     = &Error{Status: http.StatusNotFound, Message: "task not found"}
	ErrUserNotFound     = &Error{Status: http.StatusNotFound, Message: "user not found"}

	// ErrIllegalTransition 请求的任务状态不在当前状态的转移集合中。
	ErrIllegalTransition = &Error{Status: http.StatusBadRequest, Message: "task status transition not allowed"}

	// ErrCredentials 凭证无效、令牌无效/过期或用户未激活。
	ErrCredentials = &Error{Status: http.StatusUnauthorized, Message: "could not validate credentials or user is inactive"}

	ErrEmailRegistered = &Error{Status: http.StatusBadRequest, Message: "email already registered"}
	ErrUserActive      = &Error{Status: http.StatusBadRequest, Message: "user is active"}
	ErrInvalidCode     = &Error{Status: http.StatusBadRequest, Message: "invalid code"}

	// ErrCodeThrottled 验证码发送过于频繁。
	ErrCodeThrottled = &Error{Status: http.StatusTooManyRequests, Message: "too many requests"}
)
