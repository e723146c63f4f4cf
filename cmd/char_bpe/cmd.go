package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wbrown/char_bpe"
	"github.com/wbrown/char_bpe/envconfig"
	"github.com/wbrown/char_bpe/resources"
	"github.com/wbrown/char_bpe/server"
	"github.com/wbrown/char_bpe/types"
)

var errNoCorpusFlag = errors.New("--corpus is required")

// trainFromFlags loads the corpus named by --corpus and trains on it,
// invoking callback for every merge.
func trainFromFlags(
	cmd *cobra.Command,
	callback char_bpe.MergeCallback,
) (*char_bpe.TrainedState, string, error) {
	corpusPath, _ := cmd.Flags().GetString("corpus")
	if corpusPath == "" {
		return nil, "", errNoCorpusFlag
	}
	vocabSize, err := cmd.Flags().GetInt("vocab-size")
	if err != nil {
		return nil, "", err
	}
	corpus, err := resources.LoadCorpus(corpusPath)
	if err != nil {
		return nil, "", err
	}
	return char_bpe.TrainWithCallback(corpus, vocabSize, callback), corpus, nil
}

func TrainHandler(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var callback char_bpe.MergeCallback
	if verbose {
		callback = func(rank int, pair types.Pair, count int) {
			fmt.Fprintf(out, "merge %5d: %q + %q -> %q (%s)\n", rank,
				pair.Left, pair.Right, pair.Merged(),
				humanize.Comma(int64(count)))
		}
	}

	start := time.Now()
	state, corpus, err := trainFromFlags(cmd, callback)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "corpus:     %s, %s words\n",
		humanize.Bytes(uint64(len(corpus))),
		humanize.Comma(int64(len(char_bpe.SplitWords(corpus)))))
	fmt.Fprintf(out, "base size:  %s\n", humanize.Comma(int64(state.BaseSize())))
	fmt.Fprintf(out, "vocab size: %s\n", humanize.Comma(int64(state.VocabSize())))
	fmt.Fprintf(out, "merges:     %s\n", humanize.Comma(int64(len(state.Merges()))))
	fmt.Fprintf(out, "trained in  %s\n", elapsed.Round(time.Millisecond))
	return nil
}

func VocabHandler(cmd *cobra.Command, _ []string) error {
	state, _, err := trainFromFlags(cmd, nil)
	if err != nil {
		return err
	}
	symbols := state.Symbols()
	merges := state.Merges()
	// Merged symbols occupy the tail of the vocabulary in rank order.
	firstMerged := len(symbols) - len(merges)

	data := make([][]string, 0, len(symbols))
	for id, symbol := range symbols {
		rule := ""
		if id >= firstMerged {
			pair := merges[id-firstMerged]
			rule = strconv.Quote(pair.Left) + " + " + strconv.Quote(pair.Right)
		}
		data = append(data, []string{strconv.Itoa(id), strconv.Quote(symbol), rule})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "SYMBOL", "MERGE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}

// inputText returns args joined by spaces, or all of stdin without args.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	text, err := io.ReadAll(cmd.InOrStdin())
	return string(text), err
}

func EncodeHandler(cmd *cobra.Command, args []string) error {
	showSymbols, _ := cmd.Flags().GetBool("symbols")
	outputPath, _ := cmd.Flags().GetString("output")
	useUint32, _ := cmd.Flags().GetBool("uint32")

	state, _, err := trainFromFlags(cmd, nil)
	if err != nil {
		return err
	}
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}
	codec := state.NewCodec()
	tokens := codec.Encode(text)

	if outputPath != "" {
		bin, err := tokens.ToBin(useUint32)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, *bin, 0644); err != nil {
			return err
		}
		log.Printf("wrote %s tokens (%s) to %s",
			humanize.Comma(int64(len(tokens))),
			humanize.Bytes(uint64(len(*bin))), outputPath)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tokens)
	if showSymbols {
		for _, token := range tokens {
			fmt.Fprintf(out, "|%s", codec.Symbol(token))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// parseTokens reads ids from args, or from the binary file at inputPath.
func parseTokens(args []string, inputPath string, useUint32 bool) (types.Tokens, error) {
	if inputPath != "" {
		bin, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, err
		}
		if useUint32 {
			return *types.TokensFromBin32(&bin), nil
		}
		return *types.TokensFromBin(&bin), nil
	}
	tokens := make(types.Tokens, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q: %w", arg, err)
		}
		tokens = append(tokens, types.Token(id))
	}
	return tokens, nil
}

func DecodeHandler(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	useUint32, _ := cmd.Flags().GetBool("uint32")
	if inputPath == "" && len(args) == 0 {
		return errors.New("token ids or --input are required")
	}
	tokens, err := parseTokens(args, inputPath, useUint32)
	if err != nil {
		return err
	}
	state, _, err := trainFromFlags(cmd, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), state.NewCodec().Decode(tokens))
	return nil
}

func RunServer(_ *cobra.Command, _ []string) error {
	ln, err := net.Listen("tcp", envconfig.Host())
	if err != nil {
		return err
	}
	return server.Serve(ln)
}

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}
	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}
	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "char_bpe",
		Short:         "Character level byte pair encoding",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringP("corpus", "c", "",
		"Corpus file, directory of .txt files, or glob")
	rootCmd.PersistentFlags().IntP("vocab-size", "n",
		int(envconfig.VocabSize()), "Target vocabulary size")

	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train a vocabulary and print a summary",
		Args:  cobra.NoArgs,
		RunE:  TrainHandler,
	}
	trainCmd.Flags().Bool("verbose", false, "Print every merge as it is learned")

	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Train a vocabulary and print every symbol",
		Args:  cobra.NoArgs,
		RunE:  VocabHandler,
	}

	encodeCmd := &cobra.Command{
		Use:   "encode [text...]",
		Short: "Encode text, read from stdin when no text is given",
		RunE:  EncodeHandler,
	}
	encodeCmd.Flags().Bool("symbols", false, "Also print the symbol of every token")
	encodeCmd.Flags().StringP("output", "o", "", "Write binary tokens to this file")
	encodeCmd.Flags().Bool("uint32", false, "Use 32 bit binary tokens")

	decodeCmd := &cobra.Command{
		Use:   "decode [id...]",
		Short: "Decode token ids",
		RunE:  DecodeHandler,
	}
	decodeCmd.Flags().StringP("input", "i", "", "Read binary tokens from this file")
	decodeCmd.Flags().Bool("uint32", false, "Use 32 bit binary tokens")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the HTTP API",
		Args:    cobra.NoArgs,
		RunE:    RunServer,
	}

	envVars := envconfig.AsMap()
	appendEnvDocs(trainCmd, []envconfig.EnvVar{envVars["CHARBPE_VOCAB_SIZE"]})
	appendEnvDocs(serveCmd, []envconfig.EnvVar{
		envVars["CHARBPE_HOST"],
		envVars["CHARBPE_ORIGINS"],
		envVars["CHARBPE_VOCAB_SIZE"],
		envVars["CHARBPE_MAX_STATES"],
		envVars["CHARBPE_DEBUG"],
	})

	rootCmd.AddCommand(
		trainCmd,
		vocabCmd,
		encodeCmd,
		decodeCmd,
		serveCmd,
	)
	return rootCmd
}
