package ingest

import "encoding/json"

// Wire DTOs for the definitions and init-data payloads. Field names follow the
// server's PascalCase convention; durations arrive as whole seconds and
// timestamps as RFC3339 strings.

type definitionsPayload struct {
	Articles     []articleDTO           `json:"Articles"`
	Trains       []trainDefinitionDTO   `json:"Trains"`
	Regions      []regionDTO            `json:"Regions"`
	JobLocations []jobLocationDTO       `json:"JobLocations"`
	Factories    []factoryDefinitionDTO `json:"Factories"`
	Products     []productDTO           `json:"Products"`
	Destinations []destinationDTO       `json:"Destinations"`
}

type articleDTO struct {
	ID    int    `json:"Id"`
	Name  string `json:"Name"`
	Level int    `json:"Level"`
	Type  int    `json:"Type"`
	Era   int    `json:"Era"`
}

type trainDefinitionDTO struct {
	ID               int    `json:"Id"`
	Name             string `json:"Name"`
	Rarity           int    `json:"Rarity"`
	Era              int    `json:"Era"`
	Region           int    `json:"Region"`
	ContentCategory  int    `json:"ContentCategory"`
	Capacity         int    `json:"Capacity"`
	CapacityPerLevel int    `json:"CapacityPerLevel"`
	Power            int    `json:"Power"`
}

type regionDTO struct {
	ID              int `json:"Id"`
	ContentCategory int `json:"ContentCategory"`
}

type jobLocationDTO struct {
	ID     int `json:"Id"`
	Region int `json:"Region"`
}

type factoryDefinitionDTO struct {
	ID        int    `json:"Id"`
	Name      string `json:"Name"`
	SlotCount int    `json:"SlotCount"`
	Level     int    `json:"Level"`
}

type productDTO struct {
	FactoryID     int          `json:"FactoryId"`
	ArticleID     int          `json:"ArticleId"`
	ArticleAmount int          `json:"ArticleAmount"`
	CraftTime     int          `json:"CraftTime"`
	Level         int          `json:"Level"`
	Requirements  []amountItem `json:"Requirements"`
}

type destinationDTO struct {
	ID             int `json:"Id"`
	LocationID     int `json:"LocationId"`
	Region         int `json:"Region"`
	ArticleID      int `json:"ArticleId"`
	Duration       int `json:"TravelDuration"`
	Multiplier     int `json:"Multiplier"`
	RequiredLevel  int `json:"RequiredLevel"`
	RequiredRarity int `json:"RequireRarity"`
	RequiredEra    int `json:"RequireEra"`
	TrainLimit     int `json:"TrainLimit"`
}

type initDataPayload struct {
	Player         playerDTO         `json:"Player"`
	Trains         []trainDTO        `json:"Trains"`
	Warehouse      []amountItem      `json:"Warehouse"`
	Jobs           []jobDTO          `json:"Jobs"`
	Factories      []factoryDTO      `json:"Factories"`
	ContractLists  []contractListDTO `json:"ContractLists"`
	Contracts      []contractDTO     `json:"Contracts"`
	VisitedRegions []int             `json:"VisitedRegions"`
	Whistles       []whistleDTO      `json:"Whistles"`
	DailyReward    *dailyRewardDTO   `json:"DailyReward"`
	LeaderBoards   []leaderBoardDTO  `json:"LeaderBoards"`
}

type playerDTO struct {
	PlayerID          int `json:"PlayerId"`
	Level             int `json:"Level"`
	WarehouseLevel    int `json:"WarehouseLevel"`
	DispatchersNormal int `json:"Dispatchers"`
	DispatchersUnion  int `json:"GuildDispatchers"`
}

type amountItem struct {
	ID     int `json:"Id"`
	Amount int `json:"Amount"`
}

type trainDTO struct {
	InstanceID   int         `json:"InstanceId"`
	DefinitionID int         `json:"TrainId"`
	Level        int         `json:"Level"`
	Region       int         `json:"Region"`
	Route        *routeDTO   `json:"Route"`
	Load         *amountItem `json:"Load"`
}

type routeDTO struct {
	Type         string `json:"RouteType"`
	DefinitionID int    `json:"DefinitionId"`
	DepartureAt  string `json:"DepartureTime"`
	ArrivalAt    string `json:"ArrivalTime"`
}

type jobDTO struct {
	ID                string          `json:"Id"`
	JobLocationID     int             `json:"JobLocationId"`
	JobType           int             `json:"JobType"`
	Duration          int             `json:"Duration"`
	RequiredArticleID int             `json:"RequiredArticleId"`
	RequiredAmount    int             `json:"RequiredAmount"`
	CurrentAmount     int             `json:"CurrentArticleAmount"`
	UnlocksAt         string          `json:"UnlocksAt"`
	ExpiresAt         string          `json:"ExpiresAt"`
	CollectableFrom   string          `json:"CollectableFrom"`
	CompletedAt       string          `json:"CompletedAt"`
	Reward            json.RawMessage `json:"Reward"`
}

type factoryDTO struct {
	DefinitionID int               `json:"DefinitionId"`
	Level        int               `json:"Level"`
	SlotCount    int               `json:"SlotCount"`
	Orders       []productOrderDTO `json:"ProductOrders"`
}

type productOrderDTO struct {
	ArticleID  int    `json:"ArticleId"`
	Amount     int    `json:"Amount"`
	CreatedAt  string `json:"CreatedAt"`
	FinishesAt string `json:"FinishTime"`
}

type contractListDTO struct {
	ID            int    `json:"Id"`
	NextReplaceAt string `json:"NextReplaceAt"`
	AvailableTo   string `json:"AvailableTo"`
	ExpiresAt     string `json:"ExpiresAt"`
}

type contractDTO struct {
	Slot           int             `json:"Slot"`
	ContractListID int             `json:"ContractListId"`
	ArticleID      int             `json:"RewardArticleId"`
	ArticleAmount  int             `json:"RewardArticleAmount"`
	Conditions     json.RawMessage `json:"Conditions"`
	UsableFrom     string          `json:"UsableFrom"`
	AvailableTo    string          `json:"AvailableTo"`
	ExpiresAt      string          `json:"ExpiresAt"`
}

type whistleDTO struct {
	ID              int             `json:"Id"`
	Category        int             `json:"Category"`
	Position        int             `json:"Position"`
	SpawnTime       string          `json:"SpawnTime"`
	CollectableFrom string          `json:"CollectableFrom"`
	IsForVideo      bool            `json:"IsForVideoReward"`
	Reward          json.RawMessage `json:"Reward"`
}

type dailyRewardDTO struct {
	Day           int               `json:"Day"`
	AvailableFrom string            `json:"AvailableFrom"`
	ExpireAt      string            `json:"ExpireDate"`
	Rewards       []json.RawMessage `json:"Rewards"`
}

type leaderBoardDTO struct {
	ID            string        `json:"LeaderboardId"`
	GroupID       string        `json:"LeaderboardGroupId"`
	JobLocationID int           `json:"JobLocationId"`
	Progresses    []progressDTO `json:"Progresses"`
}

type progressDTO struct {
	PlayerID int `json:"PlayerId"`
	Progress int `json:"Progress"`
}

// rewardEnvelope is the wire shape of every reward/condition blob. Items carry
// a type discriminant; only discriminant 8 denotes an article line.
type rewardEnvelope struct {
	Items []rewardEnvelopeItem `json:"Items"`
}

type rewardEnvelopeItem struct {
	ID    int        `json:"Id"`
	Value amountItem `json:"Value"`
}

const rewardItemArticle = 8
