package registry

// Defaults returns the built-in topic table used when configuration does not override it.
func Defaults() []TopicFeeds {
	return []TopicFeeds{
		{Topic: "sports", Feeds: []string{
			"https://www.espn.com/espn/rss/news",
			"https://www.sportingnews.com/us/rss",
			"https://feeds.bbci.co.uk/sport/rss.xml",
			"http://rss.cnn.com/rss/edition_sport.rss",
			"https://www.cbssports.com/rss/headlines",
		}},
		{Topic: "finance", Feeds: []string{
			"https://feeds.finance.yahoo.com/rss/2.0/headline",
			"https://feeds.bloomberg.com/markets/news.rss",
			"https://www.cnbc.com/id/100003114/device/rss/rss.html",
			"http://rss.cnn.com/rss/money_latest.rss",
			"https://www.marketwatch.com/rss/topstories",
		}},
		{Topic: "health", Feeds: []string{
			"https://feeds.webmd.com/rss/rss.aspx?RSSSource=RSS_PUBLIC",
			"https://www.medicalnewstoday.com/rss/news.xml",
			"http://rss.cnn.com/rss/cnn_health.rss",
			"https://feeds.bbci.co.uk/news/health/rss.xml",
			"https://www.healthline.com/feeds/rss",
		}},
		{Topic: "politics", Feeds: []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/Politics.xml",
			"http://rss.cnn.com/rss/cnn_allpolitics.rss",
			"https://feeds.bbci.co.uk/news/politics/rss.xml",
			"https://www.politico.com/rss/politics08.xml",
			"https://thehill.com/rss/syndicator/19109",
		}},
		{Topic: "technology", Feeds: []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml",
			"https://feeds.bbci.co.uk/news/technology/rss.xml",
			"https://www.wired.com/feed/rss",
			"https://techcrunch.com/feed/",
			"https://www.theverge.com/rss/index.xml",
		}},
		{Topic: "entertainment", Feeds: []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/Movies.xml",
			"http://rss.cnn.com/rss/cnn_showbiz.rss",
			"https://feeds.bbci.co.uk/news/entertainment_and_arts/rss.xml",
			"https://www.hollywoodreporter.com/feed/",
			"https://variety.com/feed/",
		}},
		{Topic: "science", Feeds: []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/Science.xml",
			"https://www.sciencedaily.com/rss/all.xml",
			"https://feeds.bbci.co.uk/news/science_and_environment/rss.xml",
			"http://feeds.nature.com/nature/rss/current",
			"https://www.space.com/feeds/all",
		}},
		{Topic: "business", Feeds: []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/Business.xml",
			"http://rss.cnn.com/rss/money_latest.rss",
			"https://feeds.bbci.co.uk/news/business/rss.xml",
			"https://www.forbes.com/business/feed/",
			"https://www.cnbc.com/id/10001147/device/rss/rss.html",
		}},
		{Topic: "world", Feeds: []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
			"http://rss.cnn.com/rss/edition_world.rss",
			"https://feeds.bbci.co.uk/news/world/rss.xml",
			"https://www.aljazeera.com/xml/rss/all.xml",
			"https://www.theguardian.com/world/rss",
		}},
		{Topic: "education", Feeds: []string{
			"https://www.insidehighered.com/rss/all",
			"https://hechingerreport.org/feed/",
			"https://www.chronicle.com/section/News/6/?cid=rclink",
			"https://www.edweek.org/rss.xml",
			"https://www.educationnews.org/feed/",
		}},
	}
}
