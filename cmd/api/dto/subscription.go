package dto

// PushSubscribeRequestDTO 는 브라우저 PushSubscription.toJSON() 형식을 그대로 받는다.
type PushSubscribeRequestDTO struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys"`
}

type PushUnsubscribeRequestDTO struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

type VAPIDKeyResponseDTO struct {
	PublicKey string `json:"public_key"`
}

type NewsletterRequestDTO struct {
	Email string `json:"email" binding:"required,email"`
}

// PushSendRequestDTO 는 관리자의 수동 푸시 요청이다.
type PushSendRequestDTO struct {
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
	URL    string `json:"url"`
	Image  string `json:"image"`
	Urgent bool   `json:"urgent"`
}
