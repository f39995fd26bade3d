package article

// Seed returns the static articles the portal starts with.
func Seed() []Article {
	return []Article{
		{
			ID:        "1",
			Title:     "【心理学】「やる気」が出ないのはなぜ？脳科学が教えるドーパミンの秘密",
			Summary:   "「やらなきゃいけないのに動けない」そんな経験はありませんか？実はやる気は「出す」ものではなく、行動した後に「ついてくる」ものなのです...",
			Content:   seedMotivation,
			Category:  Behavior,
			Tags:      []string{"やる気", "脳科学", "習慣化"},
			ImageURL:  "https://picsum.photos/id/106/800/450",
			CreatedAt: "05/20 08:00",
			Sources:   []GroundingSource{},
			ViewCount: 15420,
		},
		{
			ID:        "2",
			Title:     "【恋愛】「吊り橋効果」は本当に有効？最新の研究で分かったこと",
			Summary:   "ドキドキを恋と勘違いする「吊り橋効果」。古典的な心理学テクニックですが、現代の恋愛市場でも通用するのでしょうか？",
			Content:   seedSuspensionBridge,
			Category:  Love,
			Tags:      []string{"恋愛心理学", "吊り橋効果"},
			ImageURL:  "https://picsum.photos/id/338/800/450",
			CreatedAt: "05/21 19:30",
			Sources:   []GroundingSource{},
			ViewCount: 8900,
		},
		{
			ID:        "3",
			Title:     "【メンタル】他人と比較して落ち込む「社会的比較」の罠から抜け出す方法",
			Summary:   "SNSを見ては「あの子はキラキラしているのに自分は...」と落ち込んでいませんか？上方比較と下方比較を理解して、メンタルを守りましょう。",
			Content:   seedSocialComparison,
			Category:  Mental,
			Tags:      []string{"SNS疲れ", "自己肯定感"},
			ImageURL:  "https://picsum.photos/id/1011/800/450",
			CreatedAt: "05/22 12:15",
			Sources:   []GroundingSource{},
			ViewCount: 12100,
		},
	}
}

const seedMotivation = `
# やる気待ちをしてはいけない理由

多くの人が誤解していますが、脳科学的観点から言うと「やる気」というスイッチは存在しません。正確には、側坐核という部位が刺激されることでドーパミンが分泌され、作業興奮が起こるのです。

## クレペリンの作業興奮
心理学者のクレペリンが提唱した「作業興奮」。これは、作業を始めると脳が興奮し、どんどん作業に没頭できるようになる現象です。

### 対策：5分だけルール
とにかく5分だけやってみる。これが最強のライフハックです。

## ネットの反応
- 「もっと早く知りたかった…」
- 「掃除し始めたら止まらなくなるあれか」
- 「結局やり始めが一番キツイんだよなぁ」

## まとめ
やる気を待つのではなく、まずは指先一つでも動かしてみる。それが脳を騙す第一歩です。
`

const seedSuspensionBridge = `
# ドキドキは恋の始まり？

ダットンとアロンが行った有名な吊り橋実験。恐怖による心拍数の上昇を、相手への好意によるものだと脳が誤帰属するという理論です。

### 現代での応用
- お化け屋敷デート
- アクション映画を見る
- スポーツ観戦

これらは全て「生理的覚醒」を共有する行為です。

## 注意点
ただし、元々嫌いな相手と吊り橋を渡っても、恐怖が増幅されるだけで恋には落ちないという研究結果もあります。

## 結論
ある程度の好感度がある状態でこそ、吊り橋効果は最強のスパイスになります。
`

const seedSocialComparison = `
# SNS時代のメンタルヘルス

人は無意識に他人と自分を比較します。心理学ではこれを「社会的比較過程」と呼びます。

## 上方比較と下方比較
- **上方比較**: 自分より優れている人と比べる。「悔しいから頑張ろう」となればポジティブですが、劣等感に繋がると危険。
- **下方比較**: 自分より劣っている人と比べる。安心感を得られますが、成長は止まるかもしれません。

### 対策：昨日の自分と比べる
陳腐ですが、これが真理です。SNS上の他人は「編集されたハイライト」です。自分の「日常」と比べること自体がナンセンスなのです。
`
