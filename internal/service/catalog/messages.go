package catalog

// 알림 문구 메시지 키입니다. 실제 문구는 언어별 카탈로그에 등록됩니다.
const (
	MsgTitleProductNew     = "title.product.new"
	MsgTitleProductUpdated = "title.product.updated"
	MsgTitleProductPrice   = "title.product.price"

	MsgTitleSurgicalNew     = "title.surgical.new"
	MsgTitleSurgicalUpdated = "title.surgical.updated"
	MsgTitleSurgicalPrice   = "title.surgical.price"

	MsgTitleOfferNew   = "title.offer.new"
	MsgTitleOfferPrice = "title.offer.price"

	MsgTitleBookNew     = "title.book.new"
	MsgTitleBookUpdated = "title.book.updated"
	MsgTitleBookPrice   = "title.book.price"

	MsgTitleCourseNew     = "title.course.new"
	MsgTitleCourseUpdated = "title.course.updated"
	MsgTitleCoursePrice   = "title.course.price"

	MsgTitleExpiringSoon             = "title.expiring.new"
	MsgTitleExpiringSoonPriceChanged = "title.expiring.price"
	MsgTitleExpiringSoonUpdated      = "title.expiring.updated"

	MsgTitleReviewNew     = "title.review.new"
	MsgTitleReviewRequest = "title.review.request"

	MsgBodyName         = "body.name"
	MsgBodyExpiring     = "body.expiring"
	MsgBodyReview       = "body.review"
	MsgBodyReviewRating = "body.review.rating"

	MsgPlaceholderProduct  = "placeholder.product"
	MsgPlaceholderOffer    = "placeholder.offer"
	MsgPlaceholderSurgical = "placeholder.surgical"
	MsgPlaceholderBook     = "placeholder.book"
	MsgPlaceholderCourse   = "placeholder.course"
)
