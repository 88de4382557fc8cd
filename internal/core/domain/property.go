package domain

import (
	"time"

	"github.com/google/uuid"
)

// PropertyStatus - перечисление для статусов объекта недвижимости
type PropertyStatus string

const (
	PropertyAvailable           PropertyStatus = "available"
	PropertyUnavailable         PropertyStatus = "unavailable"
	PropertyPendingConfirmation PropertyStatus = "pending_confirmation"
	PropertyRented              PropertyStatus = "rented"
	PropertySold                PropertyStatus = "sold"
	PropertyReserved            PropertyStatus = "reserved"
)

// ConfirmableStatuses - статусы, при которых объект попадает в ежемесячный
// цикл подтверждения. Сданные/проданные объекты не опрашиваются.
func ConfirmableStatuses() []PropertyStatus {
	return []PropertyStatus{PropertyAvailable, PropertyUnavailable, PropertyPendingConfirmation}
}

// Property - объект недвижимости. Владеет им внешняя подсистема каталога,
// ядро подтверждений читает его и обновляет только status/price-поля
// и отметки *_confirmed_at.
type Property struct {
	ID                uuid.UUID      `json:"id"`
	TenantID          uuid.UUID      `json:"tenant_id"`
	Reference         string         `json:"reference"`
	PropertyType      string         `json:"property_type"`
	Neighborhood      string         `json:"neighborhood"`
	City              string         `json:"city"`
	Status            PropertyStatus `json:"status"`
	PriceAmount       float64        `json:"price_amount"`
	StatusConfirmedAt *time.Time     `json:"status_confirmed_at"`
	PriceConfirmedAt  *time.Time     `json:"price_confirmed_at"`
	OwnerID           *uuid.UUID     `json:"owner_id"`
	BrokerID          *uuid.UUID     `json:"broker_id"`
}

// PropertySnapshot - read-only срез объекта, который показывается владельцу
// на публичной странице подтверждения. Никаких внутренних идентификаторов
// кроме reference здесь быть не должно.
type PropertySnapshot struct {
	PropertyID    uuid.UUID      `json:"property_id"`
	PropertyType  string         `json:"property_type"`
	Neighborhood  string         `json:"neighborhood"`
	City          string         `json:"city"`
	Reference     string         `json:"reference"`
	CurrentStatus PropertyStatus `json:"current_status"`
	CurrentPrice  float64        `json:"current_price"`
}

// Owner - владелец объекта. Контакты нужны планировщику, чтобы понять,
// каким каналом доставлять запрос на подтверждение.
type Owner struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Phone    *string   `json:"phone"`
	Email    *string   `json:"email"`
}

// OwnerSnapshot - срез владельца для публичной страницы
type OwnerSnapshot struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}
