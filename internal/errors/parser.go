package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError DB/인프라 에러를 사용자 친화적인 코드와 메시지로 변환
// PostgreSQL 과 테스트용 SQLite 의 에러 문구를 모두 인식함
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (23505 / SQLite UNIQUE)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "필수 항목이 누락되었습니다"}
	}

	// Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "평점은 1~5 사이의 값이어야 합니다"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "입력값이 유효하지 않습니다"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "이미 사용 중인 이메일입니다"}
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "이미 사용 중인 아이디입니다"}
	case strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "이미 사용 중인 카테고리 식별자입니다"}
	case strings.Contains(errLower, "order_number"):
		return ErrorInfo{Code: ResourceConflict, Message: "주문 번호가 중복되었습니다. 다시 시도해주세요"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "이미 존재하는 데이터입니다"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "연결된 데이터가 있어 삭제할 수 없습니다"}
	}
	switch {
	case strings.Contains(errLower, "category_id"):
		return ErrorInfo{Code: CategoryNotFound, Message: "존재하지 않는 카테고리입니다"}
	case strings.Contains(errLower, "product_id"):
		return ErrorInfo{Code: ProductNotFound, Message: "존재하지 않는 상품입니다"}
	case strings.Contains(errLower, "post_id"):
		return ErrorInfo{Code: PostNotFound, Message: "존재하지 않는 게시글입니다"}
	case strings.Contains(errLower, "user_id"):
		return ErrorInfo{Code: ResourceNotFound, Message: "존재하지 않는 사용자입니다"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "참조하는 데이터를 찾을 수 없습니다"}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "상품을 찾을 수 없습니다"
	case strings.Contains(contextLower, "category"):
		return "카테고리를 찾을 수 없습니다"
	case strings.Contains(contextLower, "order"):
		return "주문을 찾을 수 없습니다"
	case strings.Contains(contextLower, "user"):
		return "사용자를 찾을 수 없습니다"
	case strings.Contains(contextLower, "review"):
		return "리뷰를 찾을 수 없습니다"
	case strings.Contains(contextLower, "post"):
		return "게시글을 찾을 수 없습니다"
	case strings.Contains(contextLower, "comment"):
		return "댓글을 찾을 수 없습니다"
	case strings.Contains(contextLower, "template"):
		return "템플릿을 찾을 수 없습니다"
	case strings.Contains(contextLower, "design"):
		return "디자인을 찾을 수 없습니다"
	}
	return "요청한 데이터를 찾을 수 없습니다"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "등록"):
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정"):
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제"):
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "checkout") || strings.Contains(contextLower, "주문"):
		return "주문 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// StatusFor picks the HTTP status for a parsed database error.
func StatusFor(info ErrorInfo) int {
	switch info.Code {
	case AuthEmailAlreadyExists, AuthUsernameExists, ResourceAlreadyExists, ResourceConflict:
		return 409
	case ResourceNotFound, CategoryNotFound, ProductNotFound, PostNotFound:
		return 404
	case ValidationRequired, ValidationInvalidInput, ReviewInvalidRating:
		return 400
	}
	return 500
}
