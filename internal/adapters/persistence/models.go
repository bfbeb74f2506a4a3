package persistence

import (
	"time"
)

// RunVersionModel represents the run_versions table: one row per play session.
// Append-only; sessions are never deleted.
type RunVersionModel struct {
	ID                int        `gorm:"column:id;primaryKey;autoIncrement"`
	Status            string     `gorm:"column:status;not null;default:'queued'"`
	Now               time.Time  `gorm:"column:now;not null"`
	DispatchersNormal int        `gorm:"column:dispatchers_normal;not null;default:0"`
	DispatchersUnion  int        `gorm:"column:dispatchers_union;not null;default:0"`
	WarehouseLevel    int        `gorm:"column:warehouse_level;not null;default:1"`
	PlayerLevel       int        `gorm:"column:player_level;not null;default:1"`
	PlayerID          int        `gorm:"column:player_id;not null;index"`
	CommandNo         int        `gorm:"column:command_no;not null;default:0"`
	NextEventAt       *time.Time `gorm:"column:next_event_at"`
	ErrorMessage      string     `gorm:"column:error_message;type:text"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (RunVersionModel) TableName() string {
	return "run_versions"
}

// ArticleModel represents the articles table (static game definitions)
type ArticleModel struct {
	ID    int    `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name;not null"`
	Level int    `gorm:"column:level;not null;default:0"`
	Type  int    `gorm:"column:type;not null"`
	Era   int    `gorm:"column:era;not null;default:0"`
}

func (ArticleModel) TableName() string {
	return "articles"
}

// WarehouseEntryModel represents the warehouse_entries table: (version, article) -> amount
type WarehouseEntryModel struct {
	VersionID int `gorm:"column:version_id;primaryKey;not null"`
	ArticleID int `gorm:"column:article_id;primaryKey;not null"`
	Amount    int `gorm:"column:amount;not null;default:0"`
}

func (WarehouseEntryModel) TableName() string {
	return "warehouse_entries"
}

// TrainDefinitionModel represents the train_definitions table (static)
type TrainDefinitionModel struct {
	ID               int    `gorm:"column:id;primaryKey"`
	Name             string `gorm:"column:name;not null"`
	Rarity           int    `gorm:"column:rarity;not null"`
	Era              int    `gorm:"column:era;not null"`
	Region           int    `gorm:"column:region;not null"`
	ContentCategory  int    `gorm:"column:content_category;not null;default:1"`
	BaseCapacity     int    `gorm:"column:base_capacity;not null"`
	CapacityPerLevel int    `gorm:"column:capacity_per_level;not null;default:0"`
	Power            int    `gorm:"column:power;not null;default:0"`
}

func (TrainDefinitionModel) TableName() string {
	return "train_definitions"
}

// TrainModel represents the trains table
type TrainModel struct {
	VersionID         int                   `gorm:"column:version_id;primaryKey;not null"`
	InstanceID        int                   `gorm:"column:instance_id;primaryKey;not null"`
	DefinitionID      int                   `gorm:"column:definition_id;not null"`
	Definition        *TrainDefinitionModel `gorm:"foreignKey:DefinitionID;references:ID"`
	Level             int                   `gorm:"column:level;not null;default:1"`
	Region            int                   `gorm:"column:region;not null;default:0"`
	RouteType         string                `gorm:"column:route_type;not null;default:''"`
	RouteDefinitionID int                   `gorm:"column:route_definition_id;not null;default:0"`
	RouteDepartureAt  *time.Time            `gorm:"column:route_departure_at"`
	RouteArrivalAt    *time.Time            `gorm:"column:route_arrival_at"`
	HasLoad           bool                  `gorm:"column:has_load;not null;default:false"`
	LoadArticleID     int                   `gorm:"column:load_article_id;not null;default:0"`
	LoadAmount        int                   `gorm:"column:load_amount;not null;default:0"`
}

func (TrainModel) TableName() string {
	return "trains"
}

// RegionModel represents the regions table (static)
type RegionModel struct {
	ID              int `gorm:"column:id;primaryKey"`
	ContentCategory int `gorm:"column:content_category;not null;default:1"`
}

func (RegionModel) TableName() string {
	return "regions"
}

// JobLocationModel represents the job_locations table (static)
type JobLocationModel struct {
	ID       int          `gorm:"column:id;primaryKey"`
	RegionID int          `gorm:"column:region_id;not null"`
	Region   *RegionModel `gorm:"foreignKey:RegionID;references:ID"`
}

func (JobLocationModel) TableName() string {
	return "job_locations"
}

// JobModel represents the jobs table. Reward lines are decoded once at load into
// typed values; the JSON column is never re-parsed per read.
type JobModel struct {
	VersionID         int               `gorm:"column:version_id;primaryKey;not null"`
	JobID             string            `gorm:"column:job_id;primaryKey;not null"`
	JobLocationID     int               `gorm:"column:job_location_id;not null;index"`
	Location          *JobLocationModel `gorm:"foreignKey:JobLocationID;references:ID"`
	JobType           int               `gorm:"column:job_type;not null;default:0"`
	RequiredArticleID int               `gorm:"column:required_article_id;not null"`
	RequiredAmount    int               `gorm:"column:required_amount;not null"`
	CurrentAmount     int               `gorm:"column:current_amount;not null;default:0"`
	DispatchedAmount  int               `gorm:"column:dispatched_amount;not null;default:0"`
	DurationSeconds   int               `gorm:"column:duration_seconds;not null;default:0"`
	UnlockAt          *time.Time        `gorm:"column:unlock_at"`
	ExpiresAt         *time.Time        `gorm:"column:expires_at"`
	CollectableFrom   *time.Time        `gorm:"column:collectable_from"`
	CompletedAt       *time.Time        `gorm:"column:completed_at"`
	RewardJSON        string            `gorm:"column:reward_json;type:text;not null;default:'[]'"`
}

func (JobModel) TableName() string {
	return "jobs"
}

// FactoryDefinitionModel represents the factory_definitions table (static)
type FactoryDefinitionModel struct {
	ID        int    `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;not null"`
	SlotCount int    `gorm:"column:slot_count;not null"`
	Level     int    `gorm:"column:level;not null;default:1"`
}

func (FactoryDefinitionModel) TableName() string {
	return "factory_definitions"
}

// FactoryModel represents the factories table
type FactoryModel struct {
	VersionID    int                     `gorm:"column:version_id;primaryKey;not null"`
	DefinitionID int                     `gorm:"column:definition_id;primaryKey;not null"`
	Definition   *FactoryDefinitionModel `gorm:"foreignKey:DefinitionID;references:ID"`
	Level        int                     `gorm:"column:level;not null;default:1"`
	SlotCount    int                     `gorm:"column:slot_count;not null;default:0"`
}

func (FactoryModel) TableName() string {
	return "factories"
}

// ProductModel represents the products table (static recipes)
type ProductModel struct {
	FactoryID        int    `gorm:"column:factory_id;primaryKey;not null"`
	ArticleID        int    `gorm:"column:article_id;primaryKey;not null"`
	ArticleAmount    int    `gorm:"column:article_amount;not null"`
	CraftTimeSeconds int    `gorm:"column:craft_time_seconds;not null"`
	Level            int    `gorm:"column:level;not null;default:1"`
	RequirementsJSON string `gorm:"column:requirements_json;type:text;not null;default:'[]'"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductOrderModel represents the product_orders table
type ProductOrderModel struct {
	ID         int        `gorm:"column:id;primaryKey;autoIncrement"`
	VersionID  int        `gorm:"column:version_id;not null;index"`
	FactoryID  int        `gorm:"column:factory_id;not null"`
	ArticleID  int        `gorm:"column:article_id;not null"`
	Amount     int        `gorm:"column:amount;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null"`
	FinishesAt *time.Time `gorm:"column:finishes_at"`
}

func (ProductOrderModel) TableName() string {
	return "product_orders"
}

// DestinationModel represents the destinations table (static)
type DestinationModel struct {
	ID              int        `gorm:"column:id;primaryKey"`
	LocationID      int        `gorm:"column:location_id;not null"`
	RegionID        int        `gorm:"column:region_id;not null"`
	ArticleID       int        `gorm:"column:article_id;not null;index"`
	DurationSeconds int        `gorm:"column:duration_seconds;not null"`
	Multiplier      int        `gorm:"column:multiplier;not null;default:1"`
	RequiredLevel   int        `gorm:"column:required_level;not null;default:0"`
	RequiredRarity  int        `gorm:"column:required_rarity;not null;default:0"`
	RequiredEra     int        `gorm:"column:required_era;not null;default:0"`
	RefreshAt       *time.Time `gorm:"column:refresh_at"`
	TrainLimit      int        `gorm:"column:train_limit;not null;default:0"`
}

func (DestinationModel) TableName() string {
	return "destinations"
}

// VisitedRegionModel represents the visited_regions table
type VisitedRegionModel struct {
	VersionID int `gorm:"column:version_id;primaryKey;not null"`
	RegionID  int `gorm:"column:region_id;primaryKey;not null"`
}

func (VisitedRegionModel) TableName() string {
	return "visited_regions"
}

// ContractListModel represents the contract_lists table
type ContractListModel struct {
	VersionID      int        `gorm:"column:version_id;primaryKey;not null"`
	ContractListID int        `gorm:"column:contract_list_id;primaryKey;not null"`
	NextReplaceAt  *time.Time `gorm:"column:next_replace_at"`
	AvailableTo    *time.Time `gorm:"column:available_to"`
	ExpiresAt      *time.Time `gorm:"column:expires_at"`
}

func (ContractListModel) TableName() string {
	return "contract_lists"
}

// ContractModel represents the contracts table
type ContractModel struct {
	VersionID      int        `gorm:"column:version_id;primaryKey;not null"`
	ContractListID int        `gorm:"column:contract_list_id;primaryKey;not null"`
	Slot           int        `gorm:"column:slot;primaryKey;not null"`
	ArticleID      int        `gorm:"column:article_id;not null;index"`
	ArticleAmount  int        `gorm:"column:article_amount;not null"`
	ConditionsJSON string     `gorm:"column:conditions_json;type:text;not null;default:'[]'"`
	UsableFrom     *time.Time `gorm:"column:usable_from"`
	AvailableTo    *time.Time `gorm:"column:available_to"`
	ExpiresAt      *time.Time `gorm:"column:expires_at"`
	Used           bool       `gorm:"column:used;not null;default:false"`
}

func (ContractModel) TableName() string {
	return "contracts"
}

// DailyRewardModel represents the daily_rewards table (one row per version)
type DailyRewardModel struct {
	VersionID     int       `gorm:"column:version_id;primaryKey;not null"`
	Day           int       `gorm:"column:day;not null;default:0"`
	AvailableFrom time.Time `gorm:"column:available_from;not null"`
	ExpireAt      time.Time `gorm:"column:expire_at;not null"`
	RewardsJSON   string    `gorm:"column:rewards_json;type:text;not null;default:'[]'"`
}

func (DailyRewardModel) TableName() string {
	return "daily_rewards"
}

// WhistleModel represents the whistles table
type WhistleModel struct {
	VersionID       int       `gorm:"column:version_id;primaryKey;not null"`
	WhistleID       int       `gorm:"column:whistle_id;primaryKey;not null"`
	Category        int       `gorm:"column:category;not null;default:1"`
	Position        int       `gorm:"column:position;not null;default:0"`
	SpawnTime       time.Time `gorm:"column:spawn_time;not null"`
	CollectableFrom time.Time `gorm:"column:collectable_from;not null"`
	IsForVideo      bool      `gorm:"column:is_for_video;not null;default:false"`
	RewardsJSON     string    `gorm:"column:rewards_json;type:text;not null;default:'[]'"`
	Collected       bool      `gorm:"column:collected;not null;default:false"`
}

func (WhistleModel) TableName() string {
	return "whistles"
}

// LeaderBoardModel represents the leader_boards table
type LeaderBoardModel struct {
	VersionID     int    `gorm:"column:version_id;primaryKey;not null"`
	LeaderBoardID string `gorm:"column:leader_board_id;primaryKey;not null"`
	GroupID       string `gorm:"column:group_id;not null;index"`
	JobLocationID int    `gorm:"column:job_location_id;not null"`
}

func (LeaderBoardModel) TableName() string {
	return "leader_boards"
}

// LeaderBoardProgressModel represents the leader_board_progresses table
type LeaderBoardProgressModel struct {
	VersionID int    `gorm:"column:version_id;primaryKey;not null"`
	GroupID   string `gorm:"column:group_id;primaryKey;not null"`
	PlayerID  int    `gorm:"column:player_id;primaryKey;not null"`
	Progress  int    `gorm:"column:progress;not null;default:0"`
}

func (LeaderBoardProgressModel) TableName() string {
	return "leader_board_progresses"
}
