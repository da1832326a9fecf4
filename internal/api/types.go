package api

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend serializes money as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Project statuses.
const (
	ProjectBekliyor   = "bekliyor"
	ProjectPlanlandi  = "planlandi"
	ProjectUretimde   = "uretimde"
	ProjectMontaj     = "montaj"
	ProjectKontrol    = "kontrol"
	ProjectTamamlandi = "tamamlandi"
	ProjectDurduruldu = "durduruldu"
)

// Task statuses.
const (
	TaskBekliyor     = "bekliyor"
	TaskIslemeAlindi = "isleme_alindi"
	TaskMontaj       = "montaj"
	TaskUretimde     = "uretimde"
	TaskTamamlandi   = "tamamlandi"
)

// Payment methods.
const (
	PaymentNakit      = "nakit"
	PaymentHavale     = "havale"
	PaymentKrediKarti = "kredi_karti"
)

type Tenant struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	City           string    `json:"city,omitempty"`
	District       string    `json:"district,omitempty"`
	Address        string    `json:"address,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	TaxOffice      string    `json:"tax_office,omitempty"`
	TaxNumber      string    `json:"tax_number,omitempty"`
	LightLogoURL   string    `json:"light_logo_url,omitempty"`
	DarkLogoURL    string    `json:"dark_logo_url,omitempty"`
	SetupCompleted bool      `json:"setup_completed"`
	CreatedAt      time.Time `json:"created_at"`
}

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	TenantID       string    `json:"tenant_id"`
	RoleID         string    `json:"role_id,omitempty"`
	Color          string    `json:"color,omitempty"`
	IsAdmin        bool      `json:"is_admin"`
	SetupCompleted bool      `json:"setup_completed"`
	CreatedAt      time.Time `json:"created_at"`
}

type Role struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

type Permission struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Group struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

type Subtask struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

type WorkItem struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenant_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	DefaultSubtaskIDs []string  `json:"default_subtask_ids"`
	CreatedAt         time.Time `json:"created_at"`
}

type Project struct {
	ID              string            `json:"id"`
	TenantID        string            `json:"tenant_id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	CustomerName    string            `json:"customer_name,omitempty"`
	CustomerPhone   string            `json:"customer_phone,omitempty"`
	CustomerAddress string            `json:"customer_address,omitempty"`
	Status          string            `json:"status"`
	DueDate         string            `json:"due_date,omitempty"`
	CreatedBy       string            `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	WorkItems       []ProjectWorkItem `json:"work_items,omitempty"`
	Areas           []Area            `json:"areas,omitempty"`
	Assignments     []Assignment      `json:"assignments,omitempty"`
	Tasks           []Task            `json:"tasks,omitempty"`
	Progress        float64           `json:"progress"`
}

// Closed reports whether the project no longer accepts edits.
func (p *Project) Closed() bool {
	return p.Status == ProjectTamamlandi || p.Status == ProjectDurduruldu
}

type ProjectWorkItem struct {
	WorkItemID string `json:"work_item_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

type Area struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Status          string          `json:"status,omitempty"`
	AgreedPrice     decimal.Decimal `json:"agreed_price"`
	Progress        float64         `json:"progress,omitempty"`
	RemainingAmount decimal.Decimal `json:"remaining_amount,omitempty"`
}

type Task struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	AreaID         string    `json:"area_id,omitempty"`
	WorkItemID     string    `json:"work_item_id"`
	WorkItemName   string    `json:"work_item_name"`
	GroupID        string    `json:"group_id"`
	GroupName      string    `json:"group_name"`
	SubtaskID      string    `json:"subtask_id"`
	SubtaskName    string    `json:"subtask_name"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	AssignedToName string    `json:"assigned_to_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Payment struct {
	ID            string          `json:"id"`
	AreaID        string          `json:"area_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Assignment struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name,omitempty"`
	AssignmentType string `json:"assignment_type"`
	AreaID         string `json:"area_id,omitempty"`
	AreaName       string `json:"area_name,omitempty"`
}

// Activity is a display-only log row; the client never mutates these.
type Activity struct {
	ID           string    `json:"id"`
	ActivityType string    `json:"activity_type"`
	Message      string    `json:"message"`
	UserName     string    `json:"user_name,omitempty"`
	AreaName     string    `json:"area_name,omitempty"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type File struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id,omitempty"`
	TaskID       string    `json:"task_id,omitempty"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type,omitempty"`
	ContentType  string    `json:"content_type,omitempty"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type RecentProject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalProjects      int             `json:"total_projects"`
	ActiveProjects     int             `json:"active_projects"`
	CompletedProjects  int             `json:"completed_projects"`
	TotalTasks         int             `json:"total_tasks"`
	CompletedTasks     int             `json:"completed_tasks"`
	TaskCompletionRate float64         `json:"task_completion_rate"`
	UserCount          int             `json:"user_count"`
	RecentProjects     []RecentProject `json:"recent_projects"`
}
