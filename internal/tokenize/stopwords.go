package tokenize

// defaultStopWords lists words too common in Diet minutes to carry meaning.
var defaultStopWords = []string{
	// base verbs and auxiliaries
	"する", "ある", "いる", "なる", "れる", "られる", "せる", "させる",

	// demonstratives and connectives
	"この", "その", "あの", "どの", "という", "といった", "として", "について",
	"において", "に対して", "というふうに", "だと", "である", "です", "ます",

	// particles and adverbs
	"でき", "よう", "もの", "こと", "場合", "中", "ため", "から", "まで",

	// personal pronouns
	"私", "我々", "皆さん", "皆様", "あなた", "あなた方",

	// time expressions
	"今", "現在", "今回", "今度", "先ほど", "先程", "本日", "今日", "昨日", "明日",
	"時間", "分", "秒", "年", "月", "日", "週", "回", "度", "番", "号",

	// fillers and interjections
	"はい", "いえ", "ええ", "うん", "そう", "いや", "まあ", "ちょっと", "やはり", "やっぱり",

	// titles and honorifics
	"委員", "大臣", "議員", "先生", "総理", "副", "会長", "理事", "長", "部長", "課長",
	"様", "さん", "氏", "君",

	// legal boilerplate
	"第", "章", "条", "項", "法", "法律", "制度", "政策",

	// generic thought and speech verbs
	"思う", "考える", "感じる", "見る", "聞く", "言う", "話す", "述べる", "申し上げる",
	"知る", "分かる", "理解する", "説明する", "報告する",

	// misc
	"など", "とか", "やら", "かも", "かもしれない", "でしょう", "かもしれません",
}
