// Package storeapi defines the JSON surface of the platform API: request and
// response bodies plus the error envelope shared by all endpoints.
package storeapi

import "time"

// DetailedError is the error payload of every non-2xx response.
type DetailedError struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Status    int             `json:"status"`
	RequestID *string         `json:"requestId,omitempty"`
	Context   *map[string]any `json:"context,omitempty"`
}

type ErrorMessage struct {
	Error DetailedError `json:"error"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateStoreRequest struct {
	ID        string `json:"id"`
	StoreName string `json:"storeName"`
	PlanSlug  string `json:"planSlug,omitempty"`
}

type SuspendStoreRequest struct {
	Reason string `json:"reason"`
}

type StoreResponse struct {
	ID                 string     `json:"id"`
	StoreName          string     `json:"storeName"`
	Hostname           string     `json:"hostname"`
	Status             string     `json:"status"`
	SuspendedReason    string     `json:"suspendedReason,omitempty"`
	Plan               string     `json:"plan,omitempty"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	TrialEndsAt        *time.Time `json:"trialEndsAt,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscriptionEndsAt,omitempty"`

	ProductCount        int `json:"productCount"`
	OrderCountThisMonth int `json:"orderCountThisMonth"`
	StorageUsedMB       int `json:"storageUsedMb"`
}

type StoreListResponse struct {
	Stores []StoreResponse `json:"stores"`
	Total  int             `json:"total"`
}

type PlanResponse struct {
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	PriceMonthlyCents int64    `json:"priceMonthlyCents"`
	PriceYearlyCents  int64    `json:"priceYearlyCents"`
	MaxProducts       int      `json:"maxProducts"`
	MaxOrdersPerMonth int      `json:"maxOrdersPerMonth"`
	MaxStorageMB      int      `json:"maxStorageMb"`
	MaxUsers          int      `json:"maxUsers"`
	Features          []string `json:"features,omitempty"`
	Featured          bool     `json:"featured"`
}

type PlanListResponse struct {
	Plans []PlanResponse `json:"plans"`
}

type SSOLaunchResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

type ProductRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

type ProductResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Active     bool   `json:"active"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

type OrderRequest struct {
	TotalCents int64 `json:"totalCents"`
}

type OrderResponse struct {
	ID         uint   `json:"id"`
	Number     string `json:"number"`
	TotalCents int64  `json:"totalCents"`
	Status     string `json:"status"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type MediaUploadRequest struct {
	FileName string `json:"fileName"`
	SizeMB   int    `json:"sizeMb"`
}

type MediaUploadResponse struct {
	FileName      string `json:"fileName"`
	StorageUsedMB int    `json:"storageUsedMb"`
}
