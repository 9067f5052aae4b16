package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드는 이 코드를 기준으로 ko/en 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 아이디/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // 아이디 중복
	AuthRegistrationClosed = "AUTH_REGISTRATION_CLOSED" // 회원가입 비활성화 (mock 인증)

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden     = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzAdminOnly     = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzAdminDisabled = "AUTHZ_ADMIN_DISABLED" // 관리자 비밀번호 미설정

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 상품 (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"     // 상품 없음
	ProductInvalidPrice = "PRODUCT_INVALID_PRICE" // 잘못된 가격
	CategoryNotFound    = "CATEGORY_NOT_FOUND"    // 카테고리 없음
	SubcategoryMismatch = "SUBCATEGORY_MISMATCH"  // 카테고리에 속하지 않는 하위 카테고리
	ProductImportFailed = "PRODUCT_IMPORT_FAILED" // 엑셀 가져오기 실패

	// ==================== 장바구니/주문 (CART_, ORDER_) ====================
	CartItemNotFound       = "CART_ITEM_NOT_FOUND"      // 장바구니 항목 없음
	CartInvalidQuantity    = "CART_INVALID_QUANTITY"    // 잘못된 수량
	CartClientRequired     = "CART_CLIENT_REQUIRED"     // 클라이언트 ID 필요
	OrderNotFound          = "ORDER_NOT_FOUND"          // 주문 없음
	OrderNoItemsSelected   = "ORDER_NO_ITEMS_SELECTED"  // 선택된 상품 없음
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"     // 잘못된 주문 상태
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION" // 허용되지 않는 상태 변경

	// ==================== 디자인 (DESIGN_, TEMPLATE_) ====================
	DesignNotFound          = "DESIGN_NOT_FOUND"          // 디자인 없음
	DesignElementNotFound   = "DESIGN_ELEMENT_NOT_FOUND"  // 요소 없음
	DesignInvalidOp         = "DESIGN_INVALID_OP"         // 잘못된 편집 동작
	DesignInvalidCanvas     = "DESIGN_INVALID_CANVAS"     // 잘못된 캔버스 크기
	DesignInteractionActive = "DESIGN_INTERACTION_ACTIVE" // 다른 드래그/리사이즈 진행 중
	DesignNoInteraction     = "DESIGN_NO_INTERACTION"     // 진행 중인 드래그/리사이즈 없음
	TemplateNotFound        = "TEMPLATE_NOT_FOUND"        // 템플릿 없음
	TemplateUnavailable     = "TEMPLATE_UNAVAILABLE"      // 다운로드 불가

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // 잘못된 평점

	// ==================== 게시글/댓글 (POST_) ====================
	PostNotFound    = "POST_NOT_FOUND"    // 게시글 없음
	CommentNotFound = "COMMENT_NOT_FOUND" // 댓글 없음

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
