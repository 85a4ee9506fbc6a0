package locale

import "github.com/darkkaiser/push-server/internal/service/catalog"

var arabic = map[string]string{
	catalog.MsgTitleProductNew:     "✅ منتج جديد",
	catalog.MsgTitleProductUpdated: "🔄 تحديث منتج",
	catalog.MsgTitleProductPrice:   "💰 تحديث سعر منتج",

	catalog.MsgTitleSurgicalNew:     "🩺 أداة طبية جديدة",
	catalog.MsgTitleSurgicalUpdated: "🩺 تحديث أداة طبية",
	catalog.MsgTitleSurgicalPrice:   "💰 تحديث سعر أداة طبية",

	catalog.MsgTitleOfferNew:   "🎁 عرض جديد",
	catalog.MsgTitleOfferPrice: "💰 تحديث سعر عرض",

	catalog.MsgTitleBookNew:     "📚 كتاب جديد",
	catalog.MsgTitleBookUpdated: "📚 تحديث كتاب",
	catalog.MsgTitleBookPrice:   "💰 تحديث سعر كتاب",

	catalog.MsgTitleCourseNew:     "🎓 كورس جديد",
	catalog.MsgTitleCourseUpdated: "🎓 تحديث كورس",
	catalog.MsgTitleCoursePrice:   "💰 تحديث سعر كورس",

	catalog.MsgTitleExpiringSoon:             "⚠️ منتج قريب الصلاحية",
	catalog.MsgTitleExpiringSoonPriceChanged: "💰⚠️ تحديث سعر منتج قريب الصلاحية",
	catalog.MsgTitleExpiringSoonUpdated:      "🔄⚠️ تحديث منتج قريب الصلاحية",

	catalog.MsgTitleReviewNew:     "💬 تقييم جديد",
	catalog.MsgTitleReviewRequest: "⭐ طلب تقييم جديد",

	catalog.MsgBodyName:         "\n%s",
	catalog.MsgBodyExpiring:     "\n%s - ينتهي خلال %s يوم",
	catalog.MsgBodyReview:       "\n%s: %s",
	catalog.MsgBodyReviewRating: "\n%s (%s ⭐): %s",

	catalog.MsgPlaceholderProduct:  "منتج",
	catalog.MsgPlaceholderOffer:    "عرض",
	catalog.MsgPlaceholderSurgical: "أداة جراحية",
	catalog.MsgPlaceholderBook:     "كتاب",
	catalog.MsgPlaceholderCourse:   "كورس",
}

var english = map[string]string{
	catalog.MsgTitleProductNew:     "✅ New product",
	catalog.MsgTitleProductUpdated: "🔄 Product updated",
	catalog.MsgTitleProductPrice:   "💰 Product price updated",

	catalog.MsgTitleSurgicalNew:     "🩺 New surgical tool",
	catalog.MsgTitleSurgicalUpdated: "🩺 Surgical tool updated",
	catalog.MsgTitleSurgicalPrice:   "💰 Surgical tool price updated",

	catalog.MsgTitleOfferNew:   "🎁 New offer",
	catalog.MsgTitleOfferPrice: "💰 Offer price updated",

	catalog.MsgTitleBookNew:     "📚 New book",
	catalog.MsgTitleBookUpdated: "📚 Book updated",
	catalog.MsgTitleBookPrice:   "💰 Book price updated",

	catalog.MsgTitleCourseNew:     "🎓 New course",
	catalog.MsgTitleCourseUpdated: "🎓 Course updated",
	catalog.MsgTitleCoursePrice:   "💰 Course price updated",

	catalog.MsgTitleExpiringSoon:             "⚠️ Product expiring soon",
	catalog.MsgTitleExpiringSoonPriceChanged: "💰⚠️ Price update on expiring product",
	catalog.MsgTitleExpiringSoonUpdated:      "🔄⚠️ Expiring product updated",

	catalog.MsgTitleReviewNew:     "💬 New review",
	catalog.MsgTitleReviewRequest: "⭐ New review request",

	catalog.MsgBodyName:         "\n%s",
	catalog.MsgBodyExpiring:     "\n%s - expires in %s days",
	catalog.MsgBodyReview:       "\n%s: %s",
	catalog.MsgBodyReviewRating: "\n%s (%s ⭐): %s",

	catalog.MsgPlaceholderProduct:  "Product",
	catalog.MsgPlaceholderOffer:    "Offer",
	catalog.MsgPlaceholderSurgical: "Surgical tool",
	catalog.MsgPlaceholderBook:     "Book",
	catalog.MsgPlaceholderCourse:   "Course",
}
