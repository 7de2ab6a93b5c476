package scripted

// speciesData is one entry of the engine's species table.
type speciesData struct {
	Name      string
	Types     []string
	BaseHP    int
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

// moveData is one entry of the engine's move table. Charging moves spend one
// turn preparing and execute automatically on the next.
type moveData struct {
	Name     string
	Type     string
	Power    int
	MaxPP    int
	Charging bool
}

var speciesTable = map[string]speciesData{
	"pikachu":    {Name: "Pikachu", Types: []string{"electric"}, BaseHP: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90},
	"raichu":     {Name: "Raichu", Types: []string{"electric"}, BaseHP: 60, Attack: 90, Defense: 55, SpAttack: 90, SpDefense: 80, Speed: 110},
	"voltorb":    {Name: "Voltorb", Types: []string{"electric"}, BaseHP: 40, Attack: 30, Defense: 50, SpAttack: 55, SpDefense: 55, Speed: 100},
	"bulbasaur":  {Name: "Bulbasaur", Types: []string{"grass"}, BaseHP: 45, Attack: 49, Defense: 49, SpAttack: 65, SpDefense: 65, Speed: 45},
	"charmander": {Name: "Charmander", Types: []string{"fire"}, BaseHP: 39, Attack: 52, Defense: 43, SpAttack: 60, SpDefense: 50, Speed: 65},
	"squirtle":   {Name: "Squirtle", Types: []string{"water"}, BaseHP: 44, Attack: 48, Defense: 65, SpAttack: 50, SpDefense: 64, Speed: 43},
	"geodude":    {Name: "Geodude", Types: []string{"rock", "ground"}, BaseHP: 40, Attack: 80, Defense: 100, SpAttack: 30, SpDefense: 30, Speed: 20},
	"onix":       {Name: "Onix", Types: []string{"rock", "ground"}, BaseHP: 35, Attack: 45, Defense: 160, SpAttack: 30, SpDefense: 45, Speed: 70},
	"staryu":     {Name: "Staryu", Types: []string{"water"}, BaseHP: 30, Attack: 45, Defense: 55, SpAttack: 70, SpDefense: 55, Speed: 85},
	"starmie":    {Name: "Starmie", Types: []string{"water"}, BaseHP: 60, Attack: 75, Defense: 85, SpAttack: 100, SpDefense: 85, Speed: 115},
	"eevee":      {Name: "Eevee", Types: []string{"normal"}, BaseHP: 55, Attack: 55, Defense: 50, SpAttack: 45, SpDefense: 65, Speed: 55},
	"pidgey":     {Name: "Pidgey", Types: []string{"normal", "flying"}, BaseHP: 40, Attack: 45, Defense: 40, SpAttack: 35, SpDefense: 35, Speed: 56},
	"snorlax":    {Name: "Snorlax", Types: []string{"normal"}, BaseHP: 160, Attack: 110, Defense: 65, SpAttack: 65, SpDefense: 110, Speed: 30},
}

var moveTable = map[string]moveData{
	"tackle":        {Name: "Tackle", Type: "normal", Power: 40, MaxPP: 35},
	"quick-attack":  {Name: "Quick Attack", Type: "normal", Power: 40, MaxPP: 30},
	"thunder-shock": {Name: "Thunder Shock", Type: "electric", Power: 40, MaxPP: 30},
	"thunderbolt":   {Name: "Thunderbolt", Type: "electric", Power: 90, MaxPP: 15},
	"ember":         {Name: "Ember", Type: "fire", Power: 40, MaxPP: 25},
	"flamethrower":  {Name: "Flamethrower", Type: "fire", Power: 90, MaxPP: 15},
	"water-gun":     {Name: "Water Gun", Type: "water", Power: 40, MaxPP: 25},
	"bubble-beam":   {Name: "Bubble Beam", Type: "water", Power: 65, MaxPP: 20},
	"vine-whip":     {Name: "Vine Whip", Type: "grass", Power: 45, MaxPP: 25},
	"razor-leaf":    {Name: "Razor Leaf", Type: "grass", Power: 55, MaxPP: 25},
	"rock-throw":    {Name: "Rock Throw", Type: "rock", Power: 50, MaxPP: 15},
	"gust":          {Name: "Gust", Type: "flying", Power: 40, MaxPP: 35},
	"solar-beam":    {Name: "Solar Beam", Type: "grass", Power: 120, MaxPP: 10, Charging: true},
	"sky-attack":    {Name: "Sky Attack", Type: "flying", Power: 140, MaxPP: 5, Charging: true},
}

// typeChart maps attacking type to defending type multipliers. Absent
// entries are neutral.
var typeChart = map[string]map[string]float64{
	"electric": {"water": 2, "flying": 2, "ground": 0, "electric": 0.5, "grass": 0.5},
	"water":    {"fire": 2, "rock": 2, "ground": 2, "water": 0.5, "grass": 0.5},
	"fire":     {"grass": 2, "fire": 0.5, "water": 0.5, "rock": 0.5},
	"grass":    {"water": 2, "rock": 2, "ground": 2, "fire": 0.5, "grass": 0.5, "flying": 0.5},
	"rock":     {"fire": 2, "flying": 2, "ground": 0.5},
	"ground":   {"electric": 2, "fire": 2, "rock": 2, "flying": 0, "grass": 0.5},
	"flying":   {"grass": 2, "electric": 0.5, "rock": 0.5},
	"normal":   {"rock": 0.5},
}

// effectiveness multiplies the chart entry for each of the defender's types.
func effectiveness(attackType string, defenderTypes []string) float64 {
	multiplier := 1.0
	row, ok := typeChart[attackType]
	if !ok {
		return multiplier
	}
	for _, t := range defenderTypes {
		if factor, ok := row[t]; ok {
			multiplier *= factor
		}
	}
	return multiplier
}
