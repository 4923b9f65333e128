package sqlinline

const QListHistoryByOwner = `--sql c75cc35c-32a9-41bc-a671-31580a0290ca
select id::text, user_id::text, generation_id::text, prompt, image_url, created_at
from history
where user_id = $1::uuid
order by created_at desc, id desc;
`

// QRecordGeneration writes the history entry and its auto-created banner in
// one statement so neither row can exist without the other.
const QRecordGeneration = `--sql f8646b55-075a-4f80-b318-1454fce809e7
with
input as (
    select
        $1::uuid  as generation_id,
        $2::uuid  as user_id,
        $3::text  as prompt,
        $4::text  as image_url,
        $5::text  as banner_name,
        $6::text  as theme,
        $7::int   as width,
        $8::int   as height
),
ins_history as (
    insert into history (user_id, generation_id, prompt, image_url)
    select user_id, generation_id, prompt, image_url from input
    returning id, created_at
),
ins_banner as (
    insert into banners (user_id, generation_id, name, image_url, theme, is_ai_generated, template_id, width, height, elements)
    select user_id, generation_id, banner_name, image_url, theme, true, null, width, height, '[]'::jsonb from input
    returning id, created_at
)
select
    (select id::text from ins_history),
    (select created_at from ins_history),
    (select id::text from ins_banner),
    (select created_at from ins_banner);
`
