package errors

// Error code constants returned in the response envelope.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps these to messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthOTPInvalid         = "AUTH_OTP_INVALID"
	AuthOTPExpired         = "AUTH_OTP_EXPIRED"
	AuthOTPNotVerified     = "AUTH_OTP_NOT_VERIFIED"
	AuthAccountBlocked     = "AUTH_ACCOUNT_BLOCKED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Cars (CAR_) ====================
	CarNotFound      = "CAR_NOT_FOUND"
	CarAlreadySold   = "CAR_ALREADY_SOLD"
	CarInvalidYear   = "CAR_INVALID_YEAR"
	CarInvalidPrice  = "CAR_INVALID_PRICE"
	CarTooManyImages = "CAR_TOO_MANY_IMAGES"

	// ==================== Sales (SALE_) ====================
	SaleInvalidBuyer    = "SALE_INVALID_BUYER"
	SaleInvalidMobile   = "SALE_INVALID_MOBILE"
	SaleInvalidPayment  = "SALE_INVALID_PAYMENT_MODE"
	SaleInvalidIDProof  = "SALE_INVALID_ID_PROOF"
	SaleProofImageCount = "SALE_PROOF_IMAGE_COUNT"

	// ==================== Inquiries (INQUIRY_) ====================
	InquiryNotFound      = "INQUIRY_NOT_FOUND"
	InquiryInvalidStatus = "INQUIRY_INVALID_STATUS"

	// ==================== Users (USER_) ====================
	UserNotFound = "USER_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalMailError     = "INTERNAL_MAIL_ERROR"
)
