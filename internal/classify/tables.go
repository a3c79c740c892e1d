package classify

// Fixed heuristic tables. All matching is case-insensitive substring; keep
// entries lowercase. The tables are package-private and never mutated, so the
// scorer stays a pure function of its input.

// vipTitles are known domestic releases exempted from scoring, an escape
// hatch for titles whose metadata hides every other signal.
var vipTitles = []string{
	"黑神话",
	"black myth",
	"明末：渊虚之羽",
	"wuchang: fallen feathers",
	"燕云十六声",
	"where winds meet",
	"影之刃零",
	"phantom blade zero",
	"绝区零",
	"zenless zone zero",
}

// culturalKeywords are title fragments strongly associated with domestic
// settings and genres.
var culturalKeywords = []string{
	"仙侠", "武侠", "修仙", "修真", "江湖", "国风", "水墨",
	"三国", "西游", "封神", "山海经", "聊斋", "轮回", "天师",
	"wuxia", "xianxia", "sanguo", "jianghu",
}

// knownEntities are studios and publishers known to be domestic, in both
// native and romanized spellings.
var knownEntities = []string{
	"米哈游", "mihoyo", "hoyoverse",
	"腾讯", "tencent",
	"网易", "netease",
	"莉莉丝", "lilith",
	"鹰角", "hypergryph",
	"游戏科学", "game science",
	"叠纸", "papergames",
	"心动", "x.d. network", "xd network",
	"帕斯亚", "pathea",
	"椰岛", "coconut island",
	"灵犀", "lingxi",
	"雷霆游戏", "leiting",
	"凉屋", "veewo",
	"英雄游戏", "hero games",
	"bilibili", "哔哩哔哩",
}

// foreignStudios are well-known non-domestic studios; a developer hit is a
// strong veto, a publisher hit a weaker one.
var foreignStudios = []string{
	"valve",
	"ubisoft",
	"electronic arts",
	"activision",
	"blizzard",
	"rockstar",
	"bethesda",
	"capcom",
	"square enix",
	"bandai namco",
	"sega",
	"konami",
	"koei tecmo",
	"nintendo",
	"fromsoftware",
	"cd projekt",
	"paradox interactive",
	"devolver digital",
	"505 games",
	"focus entertainment",
	"thq nordic",
}

// mailDomains are regional webmail providers; a support address on one of
// these (or any .cn address) counts as a domestic signal.
var mailDomains = []string{
	"qq.com",
	"163.com",
	"126.com",
	"foxmail.com",
	"sina.com",
	"aliyun.com",
}

// urlMarkers flag support URLs hosted on regional platforms.
var urlMarkers = []string{
	"qq.com",
	"163.com",
	"bilibili.com",
	"weibo.com",
	"taptap.cn",
}
