package catalog

import "timeline-lab/domain"

// boardGames is the built-in item set, keyed by BoardGameGeek object id.
var boardGames = []domain.Item{
	{ID: "174430", Name: "Gloomhaven", Year: 2017},
	{ID: "224517", Name: "Brass: Birmingham", Year: 2018},
	{ID: "167791", Name: "Terraforming Mars", Year: 2016},
	{ID: "233078", Name: "Wingspan", Year: 2019},
	{ID: "12333", Name: "Twilight Struggle", Year: 2005},
	{ID: "182028", Name: "Through the Ages: A New Story of Civilization", Year: 2015},
	{ID: "193738", Name: "Great Western Trail", Year: 2016},
	{ID: "220308", Name: "Gaia Project", Year: 2017},
	{ID: "169786", Name: "Scythe", Year: 2016},
	{ID: "187645", Name: "Star Wars: Rebellion", Year: 2016},
	{ID: "3076", Name: "Puerto Rico", Year: 2002},
	{ID: "822", Name: "Carcassonne", Year: 2000},
	{ID: "13", Name: "CATAN", Year: 1995},
	{ID: "30549", Name: "Pandemic", Year: 2008},
	{ID: "28720", Name: "Brass: Lancashire", Year: 2007},
	{ID: "31260", Name: "Agricola", Year: 2007},
	{ID: "2651", Name: "Power Grid", Year: 2004},
	{ID: "68448", Name: "7 Wonders", Year: 2010},
	{ID: "36218", Name: "Dominion", Year: 2008},
	{ID: "9209", Name: "Ticket to Ride", Year: 2004},
	{ID: "521", Name: "Crokinole", Year: 1876},
	{ID: "1406", Name: "Monopoly", Year: 1935},
	{ID: "181", Name: "Risk", Year: 1959},
	{ID: "188", Name: "Go", Year: -2200},
	{ID: "171", Name: "Chess", Year: 1475},
	{ID: "320", Name: "Scrabble", Year: 1948},
	{ID: "2083", Name: "Trivial Pursuit", Year: 1981},
	{ID: "178900", Name: "Codenames", Year: 2015},
	{ID: "342942", Name: "Ark Nova", Year: 2021},
	{ID: "312484", Name: "Lost Ruins of Arnak", Year: 2020},
	{ID: "324856", Name: "Cascadia", Year: 2021},
	{ID: "316554", Name: "Dune: Imperium", Year: 2020},
	{ID: "237182", Name: "Root", Year: 2018},
	{ID: "205637", Name: "Arkham Horror: The Card Game", Year: 2016},
	{ID: "161936", Name: "Pandemic Legacy: Season 1", Year: 2015},
	{ID: "84876", Name: "The Castles of Burgundy", Year: 2011},
	{ID: "120677", Name: "Terra Mystica", Year: 2012},
	{ID: "102794", Name: "Caverna: The Cave Farmers", Year: 2013},
	{ID: "96848", Name: "Mage Knight Board Game", Year: 2011},
	{ID: "70323", Name: "King of Tokyo", Year: 2011},
	{ID: "148228", Name: "Splendor", Year: 2014},
	{ID: "199792", Name: "Everdell", Year: 2018},
	{ID: "356123", Name: "Earth", Year: 2023},
	{ID: "359438", Name: "Forest Shuffle", Year: 2023},
	{ID: "295770", Name: "Frosthaven", Year: 2023},
	{ID: "291457", Name: "Gloomhaven: Jaws of the Lion", Year: 2020},
	{ID: "37111", Name: "Battlestar Galactica", Year: 2008},
	{ID: "25613", Name: "Through the Ages", Year: 2006},
	{ID: "5782", Name: "The Game of Life", Year: 1960},
	{ID: "463", Name: "Clue", Year: 1949},
	{ID: "15987", Name: "Arkham Horror", Year: 2005},
	{ID: "43111", Name: "Chaos in the Old World", Year: 2009},
	{ID: "230802", Name: "Azul", Year: 2017},
	{ID: "40834", Name: "Dixit", Year: 2008},
	{ID: "131357", Name: "Coup", Year: 2012},
	{ID: "209778", Name: "Magic Maze", Year: 2017},
	{ID: "173346", Name: "Champions of Midgard", Year: 2015},
	{ID: "172818", Name: "Above and Below", Year: 2015},
	{ID: "244992", Name: "The Mind", Year: 2018},
	{ID: "256226", Name: "Just One", Year: 2018},
	{ID: "266810", Name: "Pax Pamir (Second Edition)", Year: 2019},
	{ID: "283355", Name: "Nemesis", Year: 2018},
	{ID: "317985", Name: "Beyond the Sun", Year: 2020},
	{ID: "251247", Name: "Barrage", Year: 2019},
	{ID: "184267", Name: "On Mars", Year: 2020},
	{ID: "175640", Name: "Castle Panic", Year: 2009},
	{ID: "126163", Name: "Tzolk'in: The Mayan Calendar", Year: 2012},
	{ID: "35677", Name: "Le Havre", Year: 2008},
	{ID: "72125", Name: "Eclipse", Year: 2011},
}

// BoardGames returns a copy of the built-in item set.
func BoardGames() []domain.Item {
	items := make([]domain.Item, len(boardGames))
	copy(items, boardGames)
	return items
}
